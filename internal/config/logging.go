package config

import (
	"io"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Logging configures the logger of a command.
type Logging struct {
	Level  string `env:"BRAGA_LOG_LEVEL" envDefault:"info"`
	Pretty bool   `env:"BRAGA_LOG_PRETTY" envDefault:"true"`
}

// NewLogger builds a logger writing to w. Pretty output goes through a
// zerolog console writer, otherwise lines are JSON.
func (l Logging) NewLogger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		return zerolog.Nop(), eris.Wrapf(err, "log level %q", l.Level)
	}
	if l.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
