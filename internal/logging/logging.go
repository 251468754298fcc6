// Package logging builds the slog handler used by the centipede command.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging: invalid level %q", s)
	}
	return l, nil
}

// NewHandler returns a JSON handler for format "json" and a tint handler
// otherwise. Colors are only used when w is a terminal.
func NewHandler(w io.Writer, format string, level slog.Leveler) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
		if !noColor {
			w = colorable.NewColorable(f)
		}
	}

	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Drop zero durations and empty strings.
			switch v := a.Value.Any().(type) {
			case string:
				if v == "" {
					return slog.Attr{}
				}
			case time.Duration:
				if v == 0 {
					return slog.Attr{}
				}
			}
			return a
		},
	})
}
