package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type LogLevel string

const (
	DEBUG LogLevel = "debug"
	INFO  LogLevel = "info"
	WARN  LogLevel = "warn"
	ERROR LogLevel = "error"
)

// Logger writes leveled events with key/value pairs. Event names are
// snake_case strings such as "user_registered".
type Logger struct {
	zl zerolog.Logger
}

var (
	global *Logger
	mu     sync.RWMutex
)

// Init configures the process-wide logger. A nil writer discards output,
// which is what tests use.
func Init(level LogLevel, jsonFormat bool, w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	if !jsonFormat && w != io.Discard {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	zl := zerolog.New(w).Level(toZerolog(level)).With().Timestamp().Logger()

	mu.Lock()
	global = &Logger{zl: zl}
	mu.Unlock()
}

// GetLogger returns the process-wide logger, initialising a stdout INFO
// logger on first use.
func GetLogger() *Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(INFO, false, os.Stdout)
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func toZerolog(level LogLevel) zerolog.Level {
	switch LogLevel(strings.ToLower(string(level))) {
	case DEBUG:
		return zerolog.DebugLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithContext returns a child logger that tags every event with key=value.
func (l *Logger) WithContext(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.emit(l.zl.Debug(), msg, kv) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.emit(l.zl.Info(), msg, kv) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.emit(l.zl.Warn(), msg, kv) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.emit(l.zl.Error(), msg, kv) }

func (l *Logger) emit(ev *zerolog.Event, msg string, kv []interface{}) {
	if ev == nil {
		return
	}
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 >= len(kv) {
			ev = ev.Interface(key, nil)
			break
		}
		switch v := kv[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		case string:
			ev = ev.Str(key, v)
		case int:
			ev = ev.Int(key, v)
		case time.Duration:
			ev = ev.Dur(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

func WithContext(key string, value interface{}) *Logger {
	return GetLogger().WithContext(key, value)
}

func Debug(msg string, kv ...interface{}) { GetLogger().Debug(msg, kv...) }
func Info(msg string, kv ...interface{})  { GetLogger().Info(msg, kv...) }
func Warn(msg string, kv ...interface{})  { GetLogger().Warn(msg, kv...) }
func Error(msg string, kv ...interface{}) { GetLogger().Error(msg, kv...) }
