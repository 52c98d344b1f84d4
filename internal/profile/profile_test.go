package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_MissingCredentials(t *testing.T) {
	t.Parallel()

	for _, p := range []*Profile{
		{},
		{APIKey: "key"},
		{BaseURL: "https://api.example.com/v1"},
		{APIKey: "  ", BaseURL: "https://api.example.com/v1"},
	} {
		require.ErrorIs(t, p.Validate(), ErrMissingCredentials)
	}
}

func TestValidate_FillsDefaults(t *testing.T) {
	t.Parallel()

	p := &Profile{APIKey: "key", BaseURL: "https://api.example.com/v1"}
	require.NoError(t, p.Validate())
	assert.Equal(t, DefaultModel, p.AIModel)
	assert.Equal(t, DefaultAppName, p.AppName)
	assert.Equal(t, DefaultMaxSteps, p.MaxSteps)
	assert.Equal(t, DefaultLLMTimeout, p.LLMTimeout)
	assert.Equal(t, "memory", p.Driver)
}

func TestValidate_Driver(t *testing.T) {
	t.Parallel()

	p := &Profile{APIKey: "key", BaseURL: "u", Driver: "postgres"}
	require.Error(t, p.Validate())

	p = &Profile{APIKey: "key", BaseURL: "u", Driver: "postgres", DSN: "postgres://localhost/safar"}
	require.NoError(t, p.Validate())

	p = &Profile{APIKey: "key", BaseURL: "u", Driver: "mongo"}
	require.Error(t, p.Validate())
}

func TestFromViper(t *testing.T) {
	t.Setenv("AVALAI_API_KEY", "secret")
	t.Setenv("AVALAI_BASE_URL", "https://avalai.example/v1")
	t.Setenv("SAFAR_MAX_STEPS", "7")
	t.Setenv("SAFAR_LLM_TIMEOUT", "5s")

	p := FromViper(NewViper())
	assert.Equal(t, "secret", p.APIKey)
	assert.Equal(t, "https://avalai.example/v1", p.BaseURL)
	assert.Equal(t, DefaultModel, p.AIModel)
	assert.Equal(t, DefaultAppName, p.AppName)
	assert.Equal(t, 7, p.MaxSteps)
	assert.Equal(t, 5*time.Second, p.LLMTimeout)
	require.NoError(t, p.Validate())
}
