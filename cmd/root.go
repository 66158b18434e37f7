package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ns3i",
	Short: "Nord Stage 3 performance capture",
	Long:  `Captures live keyboard performances and turns them into notated sheet music.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cobra.OnInitialize(func() {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	})
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
