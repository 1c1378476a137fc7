package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersAllCollectors(t *testing.T) {
	c := New()
	families, err := c.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["semdiff_comparisons_created_total"])
	assert.True(t, names["semdiff_ted_duration_seconds"])
	assert.True(t, names["semdiff_greedy_fallback_activations_total"])
	assert.True(t, names["semdiff_parse_warnings_total"])
}

func TestNew_PrivateRegistryDoesNotCollide(t *testing.T) {
	c1 := New()
	c2 := New()
	assert.NotSame(t, c1.Registry, c2.Registry)
	assert.NotEqual(t, prometheus.DefaultRegisterer, c1.Registry)
}
