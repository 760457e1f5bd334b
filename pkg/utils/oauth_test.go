package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenStore_SaveLoadDelete(t *testing.T) {
	store := NewTokenStore(t.TempDir())
	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.Save("test", token))

	loaded, err := store.Load("test")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))

	require.NoError(t, store.Delete("test"))

	loaded, err = store.Load("test")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestTokenStore_LoadMissing(t *testing.T) {
	store := NewTokenStore(t.TempDir())

	token, err := store.Load("prod")

	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestTokenStore_EnvironmentsAreSeparate(t *testing.T) {
	store := NewTokenStore(t.TempDir())
	require.NoError(t, store.Save("test", &oauth2.Token{AccessToken: "test-token"}))

	token, err := store.Load("prod")
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestTokenStore_DeleteMissing(t *testing.T) {
	store := NewTokenStore(t.TempDir())

	assert.NoError(t, store.Delete("test"))
}

func TestMissingScopes(t *testing.T) {
	tests := []struct {
		name    string
		granted string
		want    []string
	}{
		{"all granted", ScopeSheets + " openid", nil},
		{"none granted", "", []string{ScopeSheets}},
		{"other scopes only", "openid email", []string{ScopeSheets}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, missingScopes(tt.granted, requiredScopes()))
		})
	}
}
