package ndpack

import "github.com/sirupsen/logrus"

// Logger receives codec diagnostics. Fields are key/value pairs.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Sub(fields ...interface{}) Logger
}

type logrusLogger struct {
	backend logrus.FieldLogger
}

var _ Logger = (*logrusLogger)(nil)

// NewLogrusLogger adapts a logrus logger or entry.
func NewLogrusLogger(backend logrus.FieldLogger) Logger {
	return &logrusLogger{backend: backend}
}

func defaultLogger() Logger {
	return NewLogrusLogger(logrus.StandardLogger()).Sub("module", "ndpack")
}

func (l *logrusLogger) Debug(msg string, fields ...interface{}) {
	l.parseFields(fields).Debug(msg)
}

func (l *logrusLogger) Warn(msg string, fields ...interface{}) {
	l.parseFields(fields).Warn(msg)
}

func (l *logrusLogger) Sub(fields ...interface{}) Logger {
	return &logrusLogger{
		backend: l.parseFields(fields),
	}
}

func (l *logrusLogger) parseFields(fields []interface{}) logrus.FieldLogger {
	argLen := len(fields)
	if argLen == 0 {
		return l.backend
	}
	if argLen%2 != 0 {
		panic("must specify arguments as tuples")
	}

	lFields := make(logrus.Fields)
	for i := 0; i < argLen; i += 2 {
		kStr, ok := fields[i].(string)
		if !ok {
			panic("argument keys must be strings")
		}
		lFields[kStr] = fields[i+1]
	}
	return l.backend.WithFields(lFields)
}

// Warning describes a value that was decoded in degraded form.
type Warning struct {
	Path  string // location in the tree, e.g. $.systems[2].pos
	Dtype string
	Err   error
}

func (w Warning) String() string {
	return w.Path + ": " + w.Err.Error()
}
