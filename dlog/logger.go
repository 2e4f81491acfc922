package dlog

import (
	"io"
	"io/ioutil"
	"log"
	"os"
)

// Logger embeds the standard library logger and adds Debug functions that
// are only compiled in with the `debug` build tag.
type Logger struct {
	*log.Logger
}

type LoggerOption struct {
	f func(*Logger)
}

// NewLogger writes to stderr with the standard flags unless options say
// otherwise. Build with `go build -tags debug` to enable the Debug functions;
// they are no-ops in release builds.
func NewLogger(options ...LoggerOption) *Logger {
	l := &Logger{log.New(os.Stderr, "", log.LstdFlags)}

	for _, option := range options {
		option.f(l)
	}

	return l
}

// NewDiscardLogger returns a logger that drops everything; used by tests and
// by library callers that do not care for output.
func NewDiscardLogger() *Logger {
	return NewLogger(LoggerSetOutput(ioutil.Discard))
}

// NewServiceLogger returns the logger every binary in this repository uses:
// stderr, prefixed with the binary name and with full timestamps.
func NewServiceLogger(name string) *Logger {
	return NewLogger(
		LoggerSetOutput(os.Stderr),
		LoggerSetPrefix(name+": "),
		LoggerSetFlags(log.Ldate|log.Ltime|log.Lmicroseconds|log.Llongfile),
	)
}

func LoggerSetOutput(w io.Writer) LoggerOption {
	return LoggerOption{
		func(l *Logger) {
			l.SetOutput(w)
		},
	}
}

func LoggerSetPrefix(p string) LoggerOption {
	return LoggerOption{
		func(l *Logger) {
			l.SetPrefix(p)
		},
	}
}

func LoggerSetFlags(flag int) LoggerOption {
	return LoggerOption{
		func(l *Logger) {
			l.SetFlags(flag)
		},
	}
}
