package debug

import (
	"log"
	"os"
)

// Logger is the diagnostic channel for the telemetry core. Malformed
// telemetry, identity-merge ties and other recoverable oddities are reported
// here rather than surfaced as errors.
type Logger struct {
	enabled bool
}

func NewLogger(enabled bool) *Logger {
	if enabled {
		logFile, err := os.OpenFile("dashboard-debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			log.SetOutput(logFile)
		}
		log.Printf("=== DEBUG MODE ENABLED ===")
	}

	return &Logger{enabled: enabled}
}

func (d *Logger) Enabled() bool {
	return d != nil && d.enabled
}

func (d *Logger) Printf(format string, args ...interface{}) {
	if d.Enabled() {
		log.Printf(format, args...)
	}
}

func (d *Logger) Println(args ...interface{}) {
	if d.Enabled() {
		log.Println(args...)
	}
}
