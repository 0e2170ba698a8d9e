package server

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// Sampling holds the completion parameters shared by both endpoints
type Sampling struct {
	Temperature      float32
	TopP             float32
	MaxTokens        int
	FrequencyPenalty float32
}

// samplingFile tells an explicit zero apart from a missing key
type samplingFile struct {
	Temperature      *float32 `yaml:"temperature"`
	TopP             *float32 `yaml:"top_p"`
	MaxTokens        *int     `yaml:"max_tokens"`
	FrequencyPenalty *float32 `yaml:"frequency_penalty"`
}

func defaultSampling() Sampling {
	return Sampling{Temperature: 0.7, TopP: 0.9, MaxTokens: 200}
}

func (f samplingFile) resolve() (Sampling, error) {
	s := defaultSampling()
	if f.Temperature != nil {
		s.Temperature = *f.Temperature
	}
	if f.TopP != nil {
		s.TopP = *f.TopP
	}
	if f.MaxTokens != nil {
		s.MaxTokens = *f.MaxTokens
	}
	if f.FrequencyPenalty != nil {
		s.FrequencyPenalty = *f.FrequencyPenalty
	}

	switch {
	case s.Temperature < 0 || s.Temperature > 2:
		return s, fmt.Errorf("temperature %v out of range [0, 2]", s.Temperature)
	case s.TopP <= 0 || s.TopP > 1:
		return s, fmt.Errorf("top_p %v out of range (0, 1]", s.TopP)
	case s.MaxTokens <= 0:
		return s, fmt.Errorf("max_tokens must be positive, got %d", s.MaxTokens)
	case s.FrequencyPenalty < -2 || s.FrequencyPenalty > 2:
		return s, fmt.Errorf("frequency_penalty %v out of range [-2, 2]", s.FrequencyPenalty)
	}
	return s, nil
}

// Topic is one preset question family answered by /option/.
// Match is a list of alternatives; a message matches an alternative when it
// contains every term of it.
type Topic struct {
	Name        string     `yaml:"name"`
	Match       [][]string `yaml:"match"`
	Instruction string     `yaml:"instruction"`
}

// Prompts configures how each endpoint talks to the LLM
type Prompts struct {
	Sampling Sampling `yaml:"-"`
	Chat     struct {
		Prefix string `yaml:"prefix"`
	} `yaml:"chat"`
	Option struct {
		System   string  `yaml:"system"`
		Fallback string  `yaml:"fallback"`
		Topics   []Topic `yaml:"topics"`
	} `yaml:"option"`
}

// DefaultPrompts returns the embedded prompt set
func DefaultPrompts() (*Prompts, error) {
	return ParsePrompts(defaultPrompts)
}

// LoadPrompts reads a prompt file, or the embedded defaults when path is empty
func LoadPrompts(path string) (*Prompts, error) {
	if path == "" {
		return DefaultPrompts()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts: %w", err)
	}
	return ParsePrompts(b)
}

// ParsePrompts decodes a YAML prompt set. Sampling keys left out of the file
// take their defaults; an explicit temperature of 0 is kept.
func ParsePrompts(b []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}

	var raw struct {
		Sampling samplingFile `yaml:"sampling"`
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}
	sampling, err := raw.Sampling.resolve()
	if err != nil {
		return nil, fmt.Errorf("invalid sampling: %w", err)
	}
	p.Sampling = sampling

	return &p, nil
}

// MatchTopic returns the first topic whose terms all appear in message
func (p *Prompts) MatchTopic(message string) (Topic, bool) {
	msg := strings.ToLower(message)
	for _, t := range p.Option.Topics {
		for _, alt := range t.Match {
			if len(alt) > 0 && containsAll(msg, alt) {
				return t, true
			}
		}
	}
	return Topic{}, false
}

func containsAll(s string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(s, strings.ToLower(term)) {
			return false
		}
	}
	return true
}
