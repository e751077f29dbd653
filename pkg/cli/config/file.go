package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// File holds the path of an optional TOML config file
type File struct {
	Path string
}

type fileValues struct {
	Timeout     *int    `toml:"timeout"`
	Concurrency *int    `toml:"concurrency"`
	Output      *string `toml:"output"`
	LogLevel    *string `toml:"log_level"`
	LogFormat   *string `toml:"log_format"`
}

// Flags returns CLI flags for config file
func (c *File) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML config file",
			Destination: &c.Path,
			Sources:     cli.EnvVars("URLFETCH_CONFIG"),
		},
	}
}

// Apply loads the config file and copies its values into the given configs.
// A value is skipped when isSet reports that its flag was given explicitly.
func (c *File) Apply(isSet func(name string) bool, fetch *Fetch, output *Output, logger *Logger) error {
	if c.Path == "" {
		return nil
	}

	f, err := os.Open(c.Path)
	if err != nil {
		return goerr.Wrap(err, "failed to open config file", goerr.V("path", c.Path))
	}
	defer f.Close()

	var v fileValues
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&v); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", c.Path))
	}

	setInt(isSet, "timeout", v.Timeout, &fetch.TimeoutSec)
	setInt(isSet, "concurrency", v.Concurrency, &fetch.Concurrency)
	setString(isSet, "output", v.Output, &output.Dir)
	setString(isSet, "log-level", v.LogLevel, &logger.Level)
	setString(isSet, "log-format", v.LogFormat, &logger.Format)

	return nil
}

func setInt(isSet func(string) bool, name string, src *int, dst *int) {
	if src != nil && !isSet(name) {
		*dst = *src
	}
}

func setString(isSet func(string) bool, name string, src *string, dst *string) {
	if src != nil && !isSet(name) {
		*dst = *src
	}
}
