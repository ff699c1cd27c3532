package initializer

import (
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/findash/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type levelStyle struct {
	icon  string
	color lipgloss.AdaptiveColor
}

var levelStyles = map[log.Level]levelStyle{
	log.ErrorLevel: {"❌", lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}},
	log.WarnLevel:  {"⚠️", lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}},
	log.InfoLevel:  {"ℹ️", lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}},
	log.DebugLevel: {"🐛", lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"}},
}

// keys highlighted in text output
var accentKeys = []string{"error", "symbol", "user_id", "event_type", "prefix", "caller", "time"}

func logStyles() *log.Styles {
	styles := log.DefaultStyles()
	for level, s := range levelStyles {
		styles.Levels[level] = lipgloss.NewStyle().
			SetString(s.icon).
			Bold(true).
			Padding(0, 1).
			Foreground(s.color)
	}
	accent := levelStyles[log.DebugLevel].color
	for _, k := range accentKeys {
		styles.Keys[k] = lipgloss.NewStyle().Foreground(accent)
		styles.Values[k] = lipgloss.NewStyle().Bold(true)
	}
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(levelStyles[log.ErrorLevel].color)
	return styles
}

func setupLogger(cfg *config.Log) *slog.Logger {
	logger := newLogger(os.Stdout, cfg)
	slog.SetDefault(logger)
	return logger
}

// newLogger builds the charmbracelet handler behind an slog.Logger.
// Format "json" selects JSON lines; anything else is styled text.
func newLogger(w io.Writer, cfg *config.Log) *slog.Logger {
	if cfg == nil {
		cfg = &config.Log{}
	}
	formatter := log.TextFormatter
	if cfg.Format == "json" {
		formatter = log.JSONFormatter
	}
	handler := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	handler.SetStyles(logStyles())
	return slog.New(handler)
}
