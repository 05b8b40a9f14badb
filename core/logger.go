package core

import "log"

// Logger is any service that can report application events.
// Error implementations may receive the active principal as an extra arg
// in order to tag the report with the affected user.
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

type stdLogger struct {
	std *log.Logger
}

func NewStdLogger(std *log.Logger) Logger {
	return &stdLogger{std: std}
}

func (l stdLogger) Info(msg string, args ...interface{}) {
	l.std.Println(append([]interface{}{"INFO:", msg}, args...)...)
}

func (l stdLogger) Error(msg string, args ...interface{}) {
	l.std.Println(append([]interface{}{"ERROR:", msg}, args...)...)
}
