// Package config holds the typed, YAML-loadable tuning knobs for the diff
// engine (spec.md SPEC_FULL.md §1.3): scorer weights and threshold, the TED
// size-ratio bound, the matcher's cross-file penalty and greedy-fallback
// cutoff, and the worker pool size. The leaf-text retention ceiling is not
// part of Config: it is the fixed extract.MaxLeafBytes (1 MiB).
//
// The core never discovers or reads a config file path itself — spec.md
// §1 lists "configuration file loading" as an external collaborator's
// concern; this package only defines the shape and its defaults.
package config

import (
	"gopkg.in/yaml.v3"

	"github.com/oxhq/semdiff/internal/match"
	"github.com/oxhq/semdiff/internal/score"
	"github.com/oxhq/semdiff/internal/ted"
)

// Config is the engine's full tuning surface.
type Config struct {
	Scorer  ScorerConfig  `yaml:"scorer"`
	Matcher MatcherConfig `yaml:"matcher"`
	Workers WorkersConfig `yaml:"workers"`
}

// ScorerConfig mirrors internal/score.Weights plus the match threshold and
// TED size-ratio bound.
type ScorerConfig struct {
	SignatureWeight float64 `yaml:"signature_weight"`
	NameWeight      float64 `yaml:"name_weight"`
	ParamsWeight    float64 `yaml:"params_weight"`
	BodyWeight      float64 `yaml:"body_weight"`
	Threshold       float64 `yaml:"threshold"`
	TEDRatioBound   float64 `yaml:"ted_ratio_bound"`
}

// MatcherConfig mirrors internal/match.Options.
type MatcherConfig struct {
	EnableCrossFileMatching bool    `yaml:"enable_cross_file_matching"`
	CrossFilePenalty        float64 `yaml:"cross_file_penalty"`
	GreedyFallbackCutoff    int     `yaml:"greedy_fallback_cutoff"`
}

// WorkersConfig sizes the bounded parsing worker pool (spec.md §5).
type WorkersConfig struct {
	ParseWorkers int `yaml:"parse_workers"`
}

// Default returns the spec-default configuration.
func Default() Config {
	return Config{
		Scorer: ScorerConfig{
			SignatureWeight: score.DefaultWeights.Signature,
			NameWeight:      score.DefaultWeights.Name,
			ParamsWeight:    score.DefaultWeights.Params,
			BodyWeight:      score.DefaultWeights.Body,
			Threshold:       score.DefaultThreshold,
			TEDRatioBound:   ted.SizeRatioBound,
		},
		Matcher: MatcherConfig{
			EnableCrossFileMatching: true,
			CrossFilePenalty:        match.DefaultCrossFilePenalty,
			GreedyFallbackCutoff:    match.GreedyFallbackCutoff,
		},
		Workers: WorkersConfig{ParseWorkers: 8},
	}
}

// Parse decodes a YAML document into a Config seeded with spec defaults,
// so a partial override document only needs to name the fields it changes.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ScorerWeights projects the scorer section into internal/score's Weights.
func (c Config) ScorerWeights() score.Weights {
	return score.Weights{
		Signature: c.Scorer.SignatureWeight,
		Name:      c.Scorer.NameWeight,
		Params:    c.Scorer.ParamsWeight,
		Body:      c.Scorer.BodyWeight,
	}
}

// MatcherOptions projects the matcher section into internal/match's
// Options, binding the given Scorer.
func (c Config) MatcherOptions(sc *score.Scorer) match.Options {
	return match.Options{
		Scorer:                  sc,
		Threshold:               c.Scorer.Threshold,
		EnableCrossFileMatching: c.Matcher.EnableCrossFileMatching,
		CrossFilePenalty:        c.Matcher.CrossFilePenalty,
		GreedyFallbackCutoff:    c.Matcher.GreedyFallbackCutoff,
	}
}
