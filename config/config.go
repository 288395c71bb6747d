// Package config loads the benchmark configuration from a YAML or TOML file.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/coachcheck"
	"github.com/coachcheck/format"
	"github.com/coachcheck/sampling"
)

// Environment variables that override the file.
const (
	EnvEndpoint = "COACHCHECK_ENDPOINT"
	EnvModel    = "COACHCHECK_MODEL"
	EnvAPIKey   = "COACHCHECK_API_KEY"
)

// ErrUnsupportedFile is returned for config files that are neither YAML nor TOML.
var ErrUnsupportedFile = errors.New("unsupported config file")

// Config configures a benchmark sweep.
type Config struct {
	Name     string `yaml:"name" toml:"name" validate:"required"`
	Endpoint string `yaml:"endpoint" toml:"endpoint" validate:"required,url"`
	Model    string `yaml:"model" toml:"model" validate:"required"`
	APIKey   string `yaml:"api_key" toml:"api_key"`

	Positions string `yaml:"positions" toml:"positions" validate:"required"`
	Output    string `yaml:"output" toml:"output" validate:"required"`

	Formats     []string `yaml:"formats" toml:"formats" validate:"min=1,dive,schema"`
	Thinking    []bool   `yaml:"thinking" toml:"thinking" validate:"min=1"`
	Runs        int      `yaml:"runs" toml:"runs" validate:"gte=1"`
	Workers     int      `yaml:"workers" toml:"workers" validate:"gte=1"`
	Concurrency int      `yaml:"concurrency" toml:"concurrency" validate:"gte=1"`
	TimeoutSec  int      `yaml:"timeout_sec" toml:"timeout_sec" validate:"gte=0"`

	Sampling Sampling `yaml:"sampling" toml:"sampling"`
	Log      Log      `yaml:"log" toml:"log"`
}

// Sampling overrides the built-in presets per reasoning mode.
type Sampling struct {
	Thinking    *sampling.Config `yaml:"thinking" toml:"thinking" validate:"omitempty"`
	NonThinking *sampling.Config `yaml:"non_thinking" toml:"non_thinking" validate:"omitempty"`
}

// Log configures the process logger.
type Log struct {
	Level string `yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `yaml:"json" toml:"json"`
}

// Default returns a configuration for a local llama.cpp server sweeping every
// format in both reasoning modes.
func Default() Config {
	ids := format.IDs()
	formats := make([]string, len(ids))
	for i, id := range ids {
		formats[i] = string(id)
	}
	return Config{
		Name:        "exp1",
		Endpoint:    "http://localhost:8080/v1",
		Model:       "qwen3-1.7b",
		Positions:   "test_positions.json",
		Output:      "results/exp1_formats.csv",
		Formats:     formats,
		Thinking:    []bool{true, false},
		Runs:        3,
		Workers:     1,
		Concurrency: 1,
		TimeoutSec:  120,
		Log:         Log{Level: "info"},
	}
}

// Load reads path over the defaults. The decoder is chosen by extension:
// .yaml/.yml or .toml.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "read config")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	case ".toml":
		err = toml.Unmarshal(data, &c)
	default:
		return c, errors.Wrapf(ErrUnsupportedFile, "%q", path)
	}
	if err != nil {
		return c, errors.Wrapf(err, "decode %s", path)
	}
	return c, nil
}

// ApplyEnv overrides the endpoint, model and API key with the non-empty
// values returned by getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := getenv(EnvModel); v != "" {
		c.Model = v
	}
	if v := getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("schema", func(fl validator.FieldLevel) bool {
		_, err := format.Lookup(format.ID(fl.Field().String()))
		return err == nil
	})
	return v
}

// Validate checks every field and reports all failures at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.WithStack(err)
	}
	var errs error
	for _, fe := range verrs {
		errs = multierror.Append(errs, errors.Errorf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errs
}

// Timeout is the per-request generation timeout; zero means none.
func (c Config) Timeout() time.Duration { return time.Duration(c.TimeoutSec) * time.Second }

// Arena converts the sweep settings for coachcheck.MakeArena.
func (c Config) Arena() coachcheck.Config {
	ids := make([]format.ID, len(c.Formats))
	for i, f := range c.Formats {
		ids[i] = format.ID(f)
	}
	ac := coachcheck.Config{
		Name:        c.Name,
		Model:       c.Model,
		Formats:     ids,
		Thinking:    c.Thinking,
		Runs:        c.Runs,
		Concurrency: c.Concurrency,
	}
	if c.Sampling.Thinking != nil || c.Sampling.NonThinking != nil {
		ac.Sampling = make(map[bool]sampling.Config)
		if c.Sampling.Thinking != nil {
			s := *c.Sampling.Thinking
			s.Thinking = true
			ac.Sampling[true] = s
		}
		if c.Sampling.NonThinking != nil {
			s := *c.Sampling.NonThinking
			s.Thinking = false
			ac.Sampling[false] = s
		}
	}
	return ac
}
