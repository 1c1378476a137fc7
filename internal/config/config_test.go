package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/semdiff/internal/match"
	"github.com/oxhq/semdiff/internal/score"
)

func TestDefault_MatchesSpecDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, score.DefaultWeights.Signature, cfg.Scorer.SignatureWeight)
	assert.Equal(t, score.DefaultThreshold, cfg.Scorer.Threshold)
	assert.Equal(t, match.DefaultCrossFilePenalty, cfg.Matcher.CrossFilePenalty)
	assert.Equal(t, match.GreedyFallbackCutoff, cfg.Matcher.GreedyFallbackCutoff)
	assert.True(t, cfg.Matcher.EnableCrossFileMatching)
	assert.Equal(t, 8, cfg.Workers.ParseWorkers)
}

func TestParse_PartialOverridePreservesOtherDefaults(t *testing.T) {
	cfg, err := Parse([]byte("scorer:\n  threshold: 0.9\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.Scorer.Threshold)
	assert.Equal(t, score.DefaultWeights.Signature, cfg.Scorer.SignatureWeight)
	assert.Equal(t, match.GreedyFallbackCutoff, cfg.Matcher.GreedyFallbackCutoff)
}

func TestParse_InvalidYAMLErrors(t *testing.T) {
	_, err := Parse([]byte("not: [valid: yaml"))
	require.Error(t, err)
}

func TestScorerWeights_ProjectsCorrectly(t *testing.T) {
	cfg := Default()
	w := cfg.ScorerWeights()
	assert.Equal(t, score.DefaultWeights, w)
}

func TestMatcherOptions_BindsScorer(t *testing.T) {
	cfg := Default()
	sc := score.New(cfg.ScorerWeights(), cfg.Scorer.TEDRatioBound)
	opts := cfg.MatcherOptions(sc)
	assert.Same(t, sc, opts.Scorer)
	assert.Equal(t, cfg.Scorer.Threshold, opts.Threshold)
}
