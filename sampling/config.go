// Package sampling holds the generation presets used when prompting the model.
package sampling

import "encoding/json"

// Config configures one generation call.
type Config struct {
	Temperature float32 `json:"temperature" yaml:"temperature" toml:"temperature" validate:"gte=0,lte=2"`
	TopP        float32 `json:"top_p" yaml:"top_p" toml:"top_p" validate:"gt=0,lte=1"`
	TopK        int     `json:"top_k" yaml:"top_k" toml:"top_k" validate:"gte=0"`
	MinP        float32 `json:"min_p" yaml:"min_p" toml:"min_p" validate:"gte=0,lte=1"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens" validate:"gt=0"`
	Thinking    bool    `json:"thinking" yaml:"thinking" toml:"thinking"`
}

const (
	thinkDirective   = "/think"
	noThinkDirective = "/no_think"
)

// ThinkingConf is the preset for reasoning mode. The token budget leaves room
// for the reasoning block plus the answer.
func ThinkingConf() Config {
	return Config{
		Temperature: 0.6,
		TopP:        0.95,
		TopK:        20,
		MaxTokens:   2000,
		Thinking:    true,
	}
}

// NonThinkingConf is the preset for answer-only mode.
func NonThinkingConf() Config {
	return Config{
		Temperature: 0.7,
		TopP:        0.8,
		TopK:        20,
		MaxTokens:   200,
	}
}

// For returns the preset for the given reasoning mode.
func For(thinking bool) Config {
	if thinking {
		return ThinkingConf()
	}
	return NonThinkingConf()
}

func (conf Config) IsValid() bool {
	return conf.Temperature >= 0 &&
		conf.TopP > 0 && conf.TopP <= 1 &&
		conf.TopK >= 0 &&
		conf.MinP >= 0 && conf.MinP <= 1 &&
		conf.MaxTokens > 0
}

// Directive is the reasoning-mode switch appended to the system message.
func (conf Config) Directive() string {
	if conf.Thinking {
		return thinkDirective
	}
	return noThinkDirective
}

// Mode names the reasoning mode as it appears in trial records.
func (conf Config) Mode() string {
	if conf.Thinking {
		return "thinking"
	}
	return "non_thinking"
}

// Params renders the sampling parameters, without the mode, as a JSON object.
func (conf Config) Params() string {
	b, _ := json.Marshal(struct {
		Temperature float32 `json:"temperature"`
		TopP        float32 `json:"top_p"`
		TopK        int     `json:"top_k"`
		MinP        float32 `json:"min_p"`
	}{conf.Temperature, conf.TopP, conf.TopK, conf.MinP})
	return string(b)
}
