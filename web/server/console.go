package server

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ConsoleMessage is one render log line forwarded to the browser
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// WebLogger implements core.Logger by sending messages to a console channel
type WebLogger struct {
	consoleChan chan<- ConsoleMessage
	out         io.Writer
}

// NewWebLogger creates a logger feeding consoleChan and, if out is set, copying to out
func NewWebLogger(consoleChan chan<- ConsoleMessage, out io.Writer) core.Logger {
	return &WebLogger{consoleChan: consoleChan, out: out}
}

// Printf implements core.Logger. It never blocks: messages are dropped while the channel is full.
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	if wl.out != nil {
		io.WriteString(wl.out, message)
	}

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   strings.TrimRight(message, "\n"),
		Timestamp: time.Now(),
	}:
	default:
	}
}
