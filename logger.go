package kvtable

// Logger receives structured diagnostic messages from the table for
// events that are not themselves errors returned to the caller (currently:
// the table being opened and closed). The method set matches zap.SugaredLogger's *w methods
// (Infow/Warnw/Errorw) so a *zap.Logger can be wired in with a single
// `.Sugar()` call; nothing in this package imports zap directly.
type Logger interface {
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

// NopLogger discards every message. It is the default Logger.
type NopLogger struct{}

func (NopLogger) Infow(string, ...any)  {}
func (NopLogger) Warnw(string, ...any)  {}
func (NopLogger) Errorw(string, ...any) {}
