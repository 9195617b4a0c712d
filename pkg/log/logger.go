package log

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a new named logger for pkg, registering it so it shows up in
// ListRegisteredPackages. Output follows Mode and Out at the time New is
// called; call New again (or build your own sub-logger with .With()) if Mode
// changes after startup.
func New(pkg string) zerolog.Logger {
	register(pkg)
	return create(pkg)
}

func create(pkg string) zerolog.Logger {
	zlog := zerolog.New(Out).With().Str("pkg", pkg).Int("pid", os.Getpid()).Timestamp().Caller().Logger()
	if Mode == "" || Mode == "dev" {
		zlog = zlog.Output(zerolog.ConsoleWriter{Out: Out})
	}
	return zlog
}
