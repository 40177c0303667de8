package ui

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

var s = &spinner.Spinner{}

// StartSpinner shows an indeterminate spinner with a message, used
// around the tree walk where no progress total exists yet.
func StartSpinner(message string) {
	s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = os.Stdout
	if message != "" {
		s.Suffix = " " + message
	}
	s.Start()
}

func StopSpinner(msg string) {
	if msg != "" {
		s.FinalMSG = msg + "\n"
	}
	s.Stop()
}
