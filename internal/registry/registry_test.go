package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/semdiff/internal/core"
)

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register(
		core.LanguageConfig{Language: core.LangPython},
		nil,
		[]string{".py"},
		[]ContentMarker{{Substring: "def ", Strength: MarkerMedium}},
	)
	r.Register(
		core.LanguageConfig{Language: core.LangRuby},
		nil,
		[]string{".rb"},
		[]ContentMarker{
			{Substring: "#!/usr/bin/env ruby", Strength: MarkerStrong, AtStart: true},
			{Substring: "def ", Strength: MarkerMedium},
		},
	)
	return r
}

func TestDetect_ByExtension(t *testing.T) {
	r := newTestRegistry()
	lang, ok := r.Detect("foo.py", nil)
	require.True(t, ok)
	assert.Equal(t, core.LangPython, lang)
}

func TestDetect_UnknownExtensionFallsBackToContent(t *testing.T) {
	r := newTestRegistry()
	lang, ok := r.Detect("script", []byte("#!/usr/bin/env ruby\ndef foo\nend"))
	require.True(t, ok)
	assert.Equal(t, core.LangRuby, lang, "strong shebang marker must outrank python's medium marker")
}

func TestDetect_NoExtensionNoMarkersFails(t *testing.T) {
	r := newTestRegistry()
	_, ok := r.Detect("mystery", []byte("just some plain text"))
	assert.False(t, ok)
}

func TestDetect_RegistrationOrderBreaksTies(t *testing.T) {
	r := newTestRegistry()
	// Both python and ruby have a "def " medium marker and nothing stronger:
	// python was registered first, so it wins the tie.
	lang, ok := r.Detect("mystery", []byte("def foo(): pass"))
	require.True(t, ok)
	assert.Equal(t, core.LangPython, lang)
}

func TestLanguages_ReturnsRegistrationOrder(t *testing.T) {
	r := newTestRegistry()
	assert.Equal(t, []core.Language{core.LangPython, core.LangRuby}, r.Languages())
}
