package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver

	"github.com/scschwa/nord-stage-3-interface/archive"
	"github.com/scschwa/nord-stage-3-interface/constants"
	"github.com/scschwa/nord-stage-3-interface/midifile"
	"github.com/scschwa/nord-stage-3-interface/session"
)

var (
	listenRecord bool
	listenOut    string
	listenMidi   bool
	listenUpload bool
)

func init() {
	listenCmd.Flags().BoolVarP(&listenRecord, "record", "r", false, "start recording immediately, stop on interrupt")
	listenCmd.Flags().StringVarP(&listenOut, "out", "o", "take.musicxml", "output file for the recorded take")
	listenCmd.Flags().BoolVar(&listenMidi, "midi", false, "also save the raw take as a .mid file")
	listenCmd.Flags().BoolVar(&listenUpload, "upload", false, "upload the score to the archive bucket")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Attaches to a MIDI input and shows live chords",
	Long:  `Attaches to a MIDI input, shows live chords and optionally records a take.`,
	Run: func(cmd *cobra.Command, args []string) {
		listen()
	},
}

func listen() {
	defer midi.CloseDriver()

	sess := session.New()
	stop, err := attachInput(sess)
	if err != nil {
		logrus.Fatalln("could not open MIDI input:", err)
	}
	defer stop()

	updates := sess.Subscribe()
	go func() {
		for update := range updates {
			if update.Chord != nil {
				logrus.WithField("notes", update.HeldNotes).Info(update.Chord.Name)
			}
		}
	}()

	if listenRecord {
		if err := sess.StartRecording(); err != nil {
			logrus.Fatalln("could not start recording:", err)
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	if listenRecord {
		finishTake(sess)
	}
}

func finishTake(sess *session.Session) {
	if err := sess.StopRecording(); err != nil {
		logrus.Fatalln("could not stop recording:", err)
	}

	res := sess.Result()
	for i := 0; res == nil && i < 100; i++ {
		time.Sleep(50 * time.Millisecond)
		res = sess.Result()
	}
	if res == nil {
		logrus.Fatalln("take finalization did not complete")
	}

	if err := os.WriteFile(listenOut, res.MusicXML, 0644); err != nil {
		logrus.Fatalln("could not write score:", err)
	}
	logrus.WithFields(logrus.Fields{
		"out":      listenOut,
		"bpm":      res.BPM,
		"measures": len(res.Document.Measures),
	}).Info("take saved")

	if listenMidi {
		path := strings.TrimSuffix(listenOut, ".musicxml") + ".mid"
		if err := midifile.WriteFile(path, sess.CapturedNotes(), res.BPM); err != nil {
			logrus.Errorln("could not write midi file:", err)
		}
	}
	if listenUpload {
		uploadScore(res.ID, res.MusicXML)
	}
}

func uploadScore(id string, data []byte) {
	bucket := constants.GetArchiveBucket()
	if bucket == "" {
		logrus.Warn("ARCHIVE_BUCKET is not set, skipping upload")
		return
	}
	if err := archive.UploadScore(bucket, id+".musicxml", data); err != nil {
		logrus.Errorln("could not archive score:", err)
	}
}

// attachInput connects the session to a MIDI input port: MIDI_PORT by
// name when set, else the first available port.
func attachInput(sess *session.Session) (func(), error) {
	in, err := midi.InPort(0)
	if name := constants.GetMidiPort(); name != "" {
		in, err = midi.FindInPort(name)
	}
	if err != nil {
		return nil, err
	}

	logrus.WithField("port", in.String()).Info("listening")
	return midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		sess.HandleMessage(msg.Bytes())
	}, midi.UseSysEx())
}
