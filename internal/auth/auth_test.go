package auth

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	token string
	err   error
}

func (s stubProvider) GetToken() (string, error) {
	return s.token, s.err
}

func TestInputProvider_GetToken(t *testing.T) {
	token, err := (&InputProvider{Token: " ghp_input "}).GetToken()
	require.NoError(t, err)
	assert.Equal(t, "ghp_input", token)

	_, err = (&InputProvider{}).GetToken()
	assert.Error(t, err)
}

func TestEnvProvider_GetToken_PrefersGhToken(t *testing.T) {
	t.Setenv("GH_TOKEN", "gh_token")
	t.Setenv("GITHUB_TOKEN", "github_token")

	token, err := (&EnvProvider{}).GetToken()
	require.NoError(t, err)
	assert.Equal(t, "gh_token", token)
}

func TestEnvProvider_GetToken_FallsBackToGithubToken(t *testing.T) {
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "github_token")

	token, err := (&EnvProvider{}).GetToken()
	require.NoError(t, err)
	assert.Equal(t, "github_token", token)
}

func TestEnvProvider_GetToken_Missing(t *testing.T) {
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	token, err := (&EnvProvider{}).GetToken()
	assert.Error(t, err)
	assert.Empty(t, token)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN")
}

func TestGhCliProvider_GetToken_NotFound(t *testing.T) {
	provider := &GhCliProvider{Path: filepath.Join(t.TempDir(), "missing-gh")}

	_, err := provider.GetToken()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gh")
}

func TestChain_FirstSuccessWins(t *testing.T) {
	chain := Chain{
		stubProvider{err: errors.New("first")},
		stubProvider{token: "second"},
		stubProvider{token: "third"},
	}

	token, err := chain.GetToken()
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}

func TestChain_AllFail(t *testing.T) {
	chain := Chain{
		stubProvider{err: errors.New("first")},
		stubProvider{err: errors.New("second")},
	}

	_, err := chain.GetToken()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
}

func TestGetToken_InputWins(t *testing.T) {
	t.Setenv("GH_TOKEN", "env_token")

	token, err := GetToken("input_token", "")
	require.NoError(t, err)
	assert.Equal(t, "input_token", token)
}

func TestGetToken_FallbackToEnv(t *testing.T) {
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "ghp_fallback_token")

	token, err := GetToken("", "")
	require.NoError(t, err)
	assert.Equal(t, "ghp_fallback_token", token)
}

func TestGetToken_AllFail(t *testing.T) {
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	_, err := GetToken("", filepath.Join(t.TempDir(), "missing-gh"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token input")
}

func TestTokenProvider_Interface(t *testing.T) {
	var _ TokenProvider = &InputProvider{}
	var _ TokenProvider = &EnvProvider{}
	var _ TokenProvider = &GhCliProvider{}
	var _ TokenProvider = Chain{}
}
