// Package logger provides debug logging functionality for SecuScope
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// Level represents log level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the main logger instance
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	filePath string
	enabled  bool
	level    Level
}

var (
	instance *Logger
	once     sync.Once
)

// Init initializes the global logger
func Init(outputDir string, enabled bool) error {
	var initErr error
	once.Do(func() {
		instance = &Logger{
			enabled: enabled,
			level:   LevelDebug,
		}

		if !enabled {
			return
		}

		// Create log file with timestamp
		timestamp := time.Now().Format("20060102_150405")
		hostname, _ := os.Hostname()
		logFileName := fmt.Sprintf("secuscope_debug_%s_%s.log", hostname, timestamp)

		if outputDir == "" {
			outputDir = "."
		}

		logPath := filepath.Join(outputDir, logFileName)
		file, err := os.Create(logPath)
		if err != nil {
			initErr = fmt.Errorf("failed to create log file: %w", err)
			return
		}

		instance.file = file
		instance.filePath = logPath

		// Write header
		instance.writeHeader()
	})

	return initErr
}

// GetLogPath returns the path to the log file
func GetLogPath() string {
	if instance == nil || instance.file == nil {
		return ""
	}
	return instance.filePath
}

// Close closes the log file
func Close() {
	if instance != nil && instance.file != nil {
		instance.writeFooter()
		instance.file.Close()
	}
}

func (l *Logger) writeHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	hostname, _ := os.Hostname()
	header := fmt.Sprintf(`================================================================================
SecuScope Debug Log
================================================================================
Start Time: %s
Hostname:   %s
OS:         %s/%s
Go Version: %s
================================================================================

`, time.Now().Format("2006-01-02 15:04:05.000 MST"), hostname, runtime.GOOS, runtime.GOARCH, runtime.Version())

	l.file.WriteString(header)
}

func (l *Logger) writeFooter() {
	l.mu.Lock()
	defer l.mu.Unlock()

	footer := fmt.Sprintf(`
================================================================================
End Time: %s
================================================================================
`, time.Now().Format("2006-01-02 15:04:05.000 MST"))

	l.file.WriteString(footer)
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if l == nil || !l.enabled || l.file == nil {
		return
	}

	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	msg := fmt.Sprintf(format, args...)

	// Get caller info
	_, file, line, ok := runtime.Caller(2)
	caller := ""
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	logLine := fmt.Sprintf("[%s] [%-5s] [%-20s] %s\n", timestamp, level.String(), caller, msg)
	l.file.WriteString(logLine)
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	if instance != nil {
		instance.log(LevelDebug, format, args...)
	}
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	if instance != nil {
		instance.log(LevelInfo, format, args...)
	}
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	if instance != nil {
		instance.log(LevelWarn, format, args...)
	}
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	if instance != nil {
		instance.log(LevelError, format, args...)
	}
}

// Section logs a section header for better readability
func Section(name string) {
	if instance != nil {
		instance.log(LevelInfo, "")
		instance.log(LevelInfo, "========== %s ==========", name)
	}
}

// Timing logs execution time for a function
func Timing(operation string, start time.Time) {
	if instance != nil {
		elapsed := time.Since(start)
		instance.log(LevelDebug, "[TIMING] %s completed in %v", operation, elapsed)
	}
}

// ProbeResult logs the outcome of a single probe evaluation
func ProbeResult(probeID string, category string, detected bool, detail string) {
	Debug("Probe: id=%s category=%s detected=%v detail=%s", probeID, category, detected, truncate(detail, 200))
}

// ProbeError logs an internal probe failure that was degraded to inconclusive
func ProbeError(probeID string, err error) {
	Warn("Probe %s degraded to inconclusive: %v", probeID, err)
}

// ThreatInfo logs a classified threat
func ThreatInfo(kind, severity, description string) {
	Info("Threat: [%s] [%s] %s", severity, kind, description)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
