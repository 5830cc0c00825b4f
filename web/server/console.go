package server

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

const defaultConsoleSize = 200

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// ConsoleBuffer keeps the most recent console messages of all renders
type ConsoleBuffer struct {
	mu       sync.Mutex
	messages []ConsoleMessage
	size     int
}

// NewConsoleBuffer creates a buffer holding at most size messages
func NewConsoleBuffer(size int) *ConsoleBuffer {
	return &ConsoleBuffer{size: max(size, 1)}
}

// Add appends a message, dropping the oldest when full
func (b *ConsoleBuffer) Add(msg ConsoleMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.messages) == b.size {
		copy(b.messages, b.messages[1:])
		b.messages = b.messages[:b.size-1]
	}
	b.messages = append(b.messages, msg)
}

// Messages returns a copy of the buffered messages, oldest first. A non-empty
// renderID keeps only that render's messages.
func (b *ConsoleBuffer) Messages(renderID string) []ConsoleMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ConsoleMessage, 0, len(b.messages))
	for _, msg := range b.messages {
		if renderID == "" || msg.RenderID == renderID {
			out = append(out, msg)
		}
	}
	return out
}

// WebLogger implements core.Logger by writing to stdout and a console buffer
type WebLogger struct {
	renderID string
	console  *ConsoleBuffer
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, console *ConsoleBuffer) core.Logger {
	return &WebLogger{
		renderID: renderID,
		console:  console,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	// Also write to stdout for server logs
	fmt.Printf("[%s] %s", wl.renderID, message)

	if wl.console != nil {
		wl.console.Add(ConsoleMessage{
			RenderID:  wl.renderID,
			Message:   strings.TrimRight(message, "\n"),
			Timestamp: time.Now(),
			Level:     levelOf(message),
		})
	}
}

func levelOf(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "failed"), strings.Contains(lower, "error"):
		return "error"
	case strings.Contains(lower, "timed out"), strings.Contains(lower, "cancelled"), strings.Contains(lower, "stopped"), strings.Contains(lower, "warning"):
		return "warning"
	default:
		return "info"
	}
}

// handleConsole returns recent console messages, optionally for one render
func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.console.Messages(r.URL.Query().Get("render")))
}
