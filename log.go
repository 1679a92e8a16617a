package vkey

import (
	"io"
	"strings"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
)

const LOG_ENV = "VKEY_LOG"

// SetupLogger installs a console logger on w as the process logger shared
// with gnark. level is a zerolog level name; "" means info and "disabled"
// silences everything.
func SetupLogger(w io.Writer, level string) error {
	lvl := zerolog.InfoLevel
	if level = strings.TrimSpace(level); level != "" {
		var err error
		if lvl, err = zerolog.ParseLevel(strings.ToLower(level)); err != nil {
			return err
		}
	}
	if lvl == zerolog.Disabled {
		logger.Disable()
		return nil
	}
	l := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).Level(lvl).With().Timestamp().Logger()
	logger.Set(l)
	return nil
}
