package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scschwa/nord-stage-3-interface/midifile"
	"github.com/scschwa/nord-stage-3-interface/take"
)

var (
	transcribeOut    string
	transcribeUpload bool
)

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeOut, "out", "o", "", "output file (default: input name with .musicxml)")
	transcribeCmd.Flags().BoolVar(&transcribeUpload, "upload", false, "upload the score to the archive bucket")
	rootCmd.AddCommand(transcribeCmd)
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file.mid>",
	Short: "Turns a recorded MIDI file into sheet music",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		transcribe(args[0])
	},
}

func transcribe(path string) {
	s, err := midifile.Read(path)
	if err != nil {
		logrus.Fatalln("could not read midi file:", err)
	}

	res, err := take.Finalize(midifile.Notes(s))
	if err != nil {
		logrus.Fatalln("could not finalize take:", err)
	}

	out := transcribeOut
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".musicxml"
	}
	if err := os.WriteFile(out, res.MusicXML, 0644); err != nil {
		logrus.Fatalln("could not write score:", err)
	}
	logrus.WithFields(logrus.Fields{
		"out":      out,
		"bpm":      res.BPM,
		"notes":    len(res.Notes),
		"measures": len(res.Document.Measures),
	}).Info("transcribed")

	if transcribeUpload {
		uploadScore(res.ID, res.MusicXML)
	}
}
