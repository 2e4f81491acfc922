//go:build debug
// +build debug

package dlog

import (
	"fmt"
)

// Debugf prints to the logger in the manner of fmt.Printf.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.Output(2, fmt.Sprintf(format, v...))
}

// Debug prints to the logger in the manner of fmt.Print.
func (l *Logger) Debug(v ...interface{}) {
	l.Output(2, fmt.Sprint(v...))
}

// Debugln prints to the logger in the manner of fmt.Println.
func (l *Logger) Debugln(v ...interface{}) {
	l.Output(2, fmt.Sprintln(v...))
}

// DebugEnabled reports whether Debug output is compiled in.
func (l *Logger) DebugEnabled() bool {
	return true
}
