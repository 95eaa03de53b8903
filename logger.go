package fsmx

// Logger is the minimal logging surface the core needs. The dispatcher only
// emits debug/warn lines on its silent paths; anything richer belongs to the
// embedding application. zap's SugaredLogger satisfies this interface
// directly, and internal/production ships preconfigured constructors.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}
