package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/config"
)

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)

	models := catalog.Models(NewProviderRegistry(&config.Config{DefaultProvider: "lorem"}))
	require.NotEmpty(t, models)

	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
		assert.NotEmpty(t, m.DisplayName, m.ID)
		assert.Positive(t, m.MaxOutput, m.ID)
		assert.Equal(t, m.Provider == "lorem", m.Available, m.ID)
	}
	assert.Equal(t, []string{"lorem-fast", "lorem-slow", "claude-haiku-4-5", "claude-sonnet-4-5"}, ids)
}

func TestCatalog_KeepsFileOrder(t *testing.T) {
	catalog, err := parseCatalog([]byte(`
providers:
  - provider: lorem
    models:
      zeta: {display_name: Z}
      alpha: {display_name: A}
      mid: {display_name: M}
`))
	require.NoError(t, err)

	models := catalog.Models(NewProviderRegistry(&config.Config{}))
	require.Len(t, models, 3)
	assert.Equal(t, "zeta", models[0].ID)
	assert.Equal(t, "A", models[1].DisplayName)
	assert.Equal(t, "mid", models[2].ID)
	assert.Equal(t, "lorem", models[2].Provider)
}

func TestProviderRegistry_Configured(t *testing.T) {
	r := NewProviderRegistry(&config.Config{})
	assert.True(t, r.Configured("lorem"))
	assert.False(t, r.Configured("anthropic"))
	assert.False(t, r.Configured("openai"))

	r.Register("anthropic", &fakeProvider{})
	assert.True(t, r.Configured("anthropic"))

	r = NewProviderRegistry(&config.Config{AnthropicAPIKey: "sk-test"})
	assert.True(t, r.Configured("anthropic"))
}
