package logging

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a log level. The values match zapcore's so conversion is a cast.
type Level int

const (
	// DEBUG is for development and troubleshooting output.
	DEBUG Level = Level(zapcore.DebugLevel)
	// INFO is the default level.
	INFO Level = Level(zapcore.InfoLevel)
	// WARN is for recoverable problems such as skipped input records.
	WARN Level = Level(zapcore.WarnLevel)
	// ERROR is for failures.
	ERROR Level = Level(zapcore.ErrorLevel)
)

// LevelFromString parses a level name. Names are case insensitive and "warning" is accepted.
func LevelFromString(inp string) (Level, error) {
	s := strings.ToLower(strings.TrimSpace(inp))
	if s == "warning" {
		s = "warn"
	}
	zl, err := zapcore.ParseLevel(s)
	if err != nil {
		return DEBUG, errors.Wrapf(err, "unknown log level %q", inp)
	}
	switch zl {
	case zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel:
		return Level(zl), nil
	default:
		return DEBUG, errors.Errorf("unsupported log level %q", inp)
	}
}

// AsZap converts the level to its zapcore equivalent.
func (level Level) AsZap() zapcore.Level {
	return zapcore.Level(level)
}

func (level Level) String() string {
	return strings.ToLower(level.AsZap().String())
}

// MarshalJSON encodes the level by name.
func (level Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(level.String())
}

// UnmarshalJSON decodes a level name.
func (level *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := LevelFromString(s)
	if err != nil {
		return err
	}
	*level = parsed
	return nil
}

// AtomicLevel is a level that can be changed while loggers built on it are in use.
type AtomicLevel struct {
	zap.AtomicLevel
}

// NewAtomicLevelAt returns an AtomicLevel set to level.
func NewAtomicLevelAt(level Level) AtomicLevel {
	return AtomicLevel{zap.NewAtomicLevelAt(level.AsZap())}
}

// Set changes the level.
func (al AtomicLevel) Set(level Level) {
	al.SetLevel(level.AsZap())
}

// Get returns the current level.
func (al AtomicLevel) Get() Level {
	return Level(al.Level())
}
