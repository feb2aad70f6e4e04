// Package config holds the settings of the ruleast binary.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jvitoroc/ruleast/eval"
)

type Config struct {
	Log LogConfig `yaml:"log" json:"log"`

	// Rules is the rule file used when a command is not given one.
	Rules string `yaml:"rules" json:"rules"`

	// Connective joins rules in the combine command, AND or OR.
	Connective string `yaml:"connective" json:"connective"`

	// Aliases maps a field to the field it is copied from when an evaluated
	// record lacks it. Aliases apply before defaults.
	Aliases map[string]string `yaml:"aliases" json:"aliases"`

	// Defaults fills fields missing from evaluated records.
	Defaults map[string]any `yaml:"defaults" json:"defaults"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Rules:      "rules.yaml",
		Connective: string(eval.Or),
	}
}

func (c Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format '%s'", c.Log.Format)
	}

	if !eval.IsConnective(c.ConnectiveOperator()) {
		return fmt.Errorf("unsupported connective '%s'", c.Connective)
	}

	for field, source := range c.Aliases {
		if field == "" || source == "" {
			return fmt.Errorf("invalid alias '%s' -> '%s'", field, source)
		}
	}

	if _, err := c.DefaultRecord(); err != nil {
		return err
	}

	return nil
}

func (c Config) ConnectiveOperator() eval.OperatorType {
	return eval.OperatorType(strings.ToUpper(c.Connective))
}

func (c Config) DefaultRecord() (eval.Record, error) {
	r, err := eval.RecordFromMap(c.Defaults)
	if err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	return r, nil
}

// Logger builds a logger writing to w in the configured format and level.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unsupported log level '%s'", s)
	}

	return level, nil
}
