package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"

	"github.com/scschwa/nord-stage-3-interface/server"
	"github.com/scschwa/nord-stage-3-interface/session"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the sidecar API for the display client",
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func serve() {
	defer midi.CloseDriver()

	sess := session.New()
	stop, err := attachInput(sess)
	if err != nil {
		// the API still serves /transcribe without a device
		logrus.Warnln("no MIDI input available:", err)
	} else {
		defer stop()
	}

	logrus.Fatalln(server.New(sess).Run())
}
