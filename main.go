package main

import "github.com/scschwa/nord-stage-3-interface/cmd"

func main() {
	cmd.Execute()
}
