package ui

import (
	"fmt"
	"sync"
	"time"
)

var (
	spinnerMu   sync.Mutex
	spinnerStop chan struct{}
)

// StartSpinner shows an animated status line. A running spinner is replaced.
func StartSpinner(msg string) {
	spinnerMu.Lock()
	defer spinnerMu.Unlock()

	stopLocked()

	frames := []rune(`⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏`)
	stop := make(chan struct{})
	spinnerStop = stop

	ticker := time.NewTicker(100 * time.Millisecond)
	go func() {
		pos := 0

		for {
			select {
			case <-stop:
				ticker.Stop()
				return
			case <-ticker.C:
				fmt.Printf("\r%s %s", Colors.Blue(msg), string(frames[pos%len(frames)]))
				pos++
			}
		}
	}()
}

// StopSpinner stops the spinner and clears its line. Safe to call when no
// spinner is running.
func StopSpinner() {
	spinnerMu.Lock()
	defer spinnerMu.Unlock()

	if stopLocked() {
		fmt.Print("\r\033[K")
	}
}

func stopLocked() bool {
	if spinnerStop == nil {
		return false
	}

	close(spinnerStop)
	spinnerStop = nil
	return true
}
