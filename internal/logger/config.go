package logger

import (
	"log/slog"
	"strings"
)

// Config selects the level and encoding of the default logger and the
// attributes stamped on every record
type Config struct {
	Level       string
	Format      string
	ServiceName string
	Version     string
	Environment string
	AddSource   bool
}

// NewConfig fills blank fields with package defaults. Source locations are
// included only at debug level.
func NewConfig(level, format, serviceName, version, environment string) Config {
	c := Config{
		Level:       level,
		Format:      format,
		ServiceName: serviceName,
		Version:     version,
		Environment: environment,
	}
	if c.Level == "" {
		c.Level = LogLevelInfo
	}
	if c.Format == "" {
		c.Format = LogFormatText
	}
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Environment == "" {
		c.Environment = DefaultEnvironment
	}
	c.AddSource = c.LogLevel() == slog.LevelDebug
	return c
}

// ParseLevel maps a level name to its slog.Level. ok is false for unknown names,
// which map to info.
func ParseLevel(name string) (level slog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case LogLevelDebug:
		return slog.LevelDebug, true
	case LogLevelInfo:
		return slog.LevelInfo, true
	case LogLevelWarn, LogLevelWarning:
		return slog.LevelWarn, true
	case LogLevelError:
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func (c Config) LogLevel() slog.Level {
	level, _ := ParseLevel(c.Level)
	return level
}

func (c Config) IsJSON() bool {
	return strings.EqualFold(c.Format, LogFormatJSON)
}

func (c Config) baseAttributes() []slog.Attr {
	return []slog.Attr{
		slog.String(AttrKeyService, c.ServiceName),
		slog.String(AttrKeyVersion, c.Version),
		slog.String(AttrKeyEnvironment, c.Environment),
	}
}
