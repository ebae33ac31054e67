package triage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Bounds is an inclusive integer range
type Bounds struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Contains reports Min <= v <= Max
func (b Bounds) Contains(v int) bool { return v >= b.Min && v <= b.Max }

// Thesis is the investment thesis the engine classifies against
// QualifyAbove is an exclusive lower bound; Review is inclusive on both ends
type Thesis struct {
	Version      string   `yaml:"version" json:"version"`
	Sectors      []string `yaml:"sectors" json:"sectors"`
	Stages       []string `yaml:"stages" json:"stages"`
	QualifyAbove int      `yaml:"qualify_above" json:"qualify_above"`
	Review       Bounds   `yaml:"review_band" json:"review_band"`
}

// Guardrail configures the score consistency correction
type Guardrail struct {
	Phrases []string `yaml:"phrases" json:"phrases"`
	Floor   int      `yaml:"floor" json:"floor"`
}

// Config bundles every knob the triage stages read
type Config struct {
	Thesis    Thesis    `yaml:"thesis" json:"thesis"`
	Guardrail Guardrail `yaml:"guardrail" json:"guardrail"`
	Scores    Bounds    `yaml:"scores" json:"scores"`
}

// DefaultConfig returns the stock thesis
func DefaultConfig() Config {
	return Config{
		Thesis: Thesis{
			Version:      "default-v1",
			Sectors:      []string{"B2B SaaS", "Fintech", "AI"},
			Stages:       []string{"Pre-Seed", "Seed", "Series A"},
			QualifyAbove: 65,
			Review:       Bounds{Min: 50, Max: 65},
		},
		Guardrail: Guardrail{
			Phrases: []string{"very strong", "compelling", "exceptional"},
			Floor:   70,
		},
		Scores: Bounds{Min: 0, Max: 100},
	}
}

// Validate reports every inconsistency in c, joined
func (c Config) Validate() error {
	var errs []error
	if c.Scores.Min > c.Scores.Max {
		errs = append(errs, fmt.Errorf("scores: min %d above max %d", c.Scores.Min, c.Scores.Max))
	}
	if len(nonBlank(c.Thesis.Sectors)) == 0 {
		errs = append(errs, errors.New("thesis.sectors: at least one sector required"))
	}
	if len(nonBlank(c.Thesis.Stages)) == 0 {
		errs = append(errs, errors.New("thesis.stages: at least one stage required"))
	}
	if !c.Scores.Contains(c.Thesis.QualifyAbove) {
		errs = append(errs, fmt.Errorf("thesis.qualify_above: %d outside scores %d..%d", c.Thesis.QualifyAbove, c.Scores.Min, c.Scores.Max))
	}
	if c.Thesis.Review.Min > c.Thesis.Review.Max {
		errs = append(errs, fmt.Errorf("thesis.review_band: min %d above max %d", c.Thesis.Review.Min, c.Thesis.Review.Max))
	}
	if !c.Scores.Contains(c.Thesis.Review.Min) || !c.Scores.Contains(c.Thesis.Review.Max) {
		errs = append(errs, errors.New("thesis.review_band: outside score bounds"))
	}
	if !c.Scores.Contains(c.Guardrail.Floor) {
		errs = append(errs, fmt.Errorf("guardrail.floor: %d outside score bounds", c.Guardrail.Floor))
	}
	return errors.Join(errs...)
}

// LoadConfig decodes YAML over DefaultConfig and validates the result
// Unknown keys are rejected
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode triage config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid triage config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML config from path
func LoadConfigFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read triage config: %w", err)
	}
	return LoadConfig(bytes.NewReader(b))
}

// YAML renders c as a config file body
func (c Config) YAML() ([]byte, error) { return yaml.Marshal(c) }

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if normalizeText(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
