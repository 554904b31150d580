package gtx8

// Logger receives driver diagnostics as a message plus key/value pairs.
//
// *slog.Logger satisfies it:
//
//	dev, err := gtx8.NewI2C(bus, &gtx8.Opts{Logger: slog.Default()})
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
