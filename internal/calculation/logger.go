package calculation

// Logger is the logging surface the forecast engine needs. *logrus.Entry and
// *logrus.Logger satisfy it; the default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// runLogger prefers the run's own logger and falls back to the engine's.
func runLogger(run, engine Logger) Logger {
	if _, nop := run.(NopLogger); run == nil || nop {
		if engine == nil {
			return NopLogger{}
		}
		return engine
	}
	return run
}
