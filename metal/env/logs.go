package env

import "log/slog"

type LogsEnvironment struct {
	Level      string `validate:"required,oneof=debug info warn error"`
	Dir        string `validate:"required,min=5"`
	DateFormat string `validate:"required,min=6"`
}

func (e LogsEnvironment) SlogLevel() slog.Level {
	switch e.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
