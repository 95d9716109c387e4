package server

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Console levels shown by the web UI
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
)

// ConsoleMessage is one render log line as streamed to the browser
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // LevelInfo or LevelWarning
}

// WebLogger is the core.Logger of a streamed render. Every line goes to
// the server log prefixed with the render ID, and is copied to the
// render's console channel when there is room.
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger returns a logger for the render named renderID. A nil
// channel logs to the server log only.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Printf formats the line and routes it. The console send never blocks a
// render worker; lines that find the channel full only reach the server log.
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	log.Printf("[%s] %s", wl.renderID, strings.TrimSuffix(message, "\n"))

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     messageLevel(message),
	}:
	default:
	}
}

// messageLevel marks reports of skipped degenerate samples or lights as
// warnings; everything else is info.
func messageLevel(message string) string {
	if strings.Contains(message, "skipped") {
		return LevelWarning
	}
	return LevelInfo
}
