package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOAuthClient() *OAuthClientConfig {
	return &OAuthClientConfig{
		Installed: OAuthInstalled{
			ClientID:                "test-client-id.apps.googleusercontent.com",
			ProjectID:               "test-project",
			AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
			TokenURI:                "https://oauth2.googleapis.com/token",
			AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
			ClientSecret:            "test-secret",
			RedirectURIs:            []string{"http://localhost"},
		},
	}
}

func TestValidateOAuthClient(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*OAuthClientConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(*OAuthClientConfig) {}},
		{name: "missing client id", mutate: func(c *OAuthClientConfig) { c.Installed.ClientID = "" }, wantErr: true},
		{name: "invalid auth uri", mutate: func(c *OAuthClientConfig) { c.Installed.AuthURI = "not-a-valid-url" }, wantErr: true},
		{name: "no redirect uris", mutate: func(c *OAuthClientConfig) { c.Installed.RedirectURIs = []string{} }, wantErr: true},
		{name: "invalid redirect uri", mutate: func(c *OAuthClientConfig) { c.Installed.RedirectURIs = []string{"not a valid uri"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validOAuthClient()
			tt.mutate(cfg)

			err := ValidateOAuthClient(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "validation failed")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadOAuthClientFromPath(t *testing.T) {
	oauthPath := filepath.Join(t.TempDir(), "oauthClient.json")
	content := `{
  "installed": {
    "client_id": "test-client-id.apps.googleusercontent.com",
    "project_id": "test-project",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "client_secret": "test-secret",
    "redirect_uris": ["http://localhost", "urn:ietf:wg:oauth:2.0:oob"]
  }
}`
	require.NoError(t, os.WriteFile(oauthPath, []byte(content), 0644))

	cfg, err := LoadOAuthClientFromPath(oauthPath)
	require.NoError(t, err)
	assert.Equal(t, "test-client-id.apps.googleusercontent.com", cfg.Installed.ClientID)
	assert.Equal(t, "test-secret", cfg.Installed.ClientSecret)
	assert.Equal(t, []string{"http://localhost", "urn:ietf:wg:oauth:2.0:oob"}, cfg.Installed.RedirectURIs)
}

func TestLoadOAuthClientFromPath_Errors(t *testing.T) {
	dir := t.TempDir()

	invalidJSON := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalidJSON, []byte(`{"installed": {"client_id": "test" "project_id": "x"}}`), 0644))

	missingSecret := filepath.Join(dir, "missing.json")
	require.NoError(t, os.WriteFile(missingSecret, []byte(`{
  "installed": {
    "client_id": "test-client-id",
    "project_id": "test-project",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "redirect_uris": ["http://localhost"]
  }
}`), 0644))

	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{name: "invalid json", path: invalidJSON, wantMsg: "failed to parse oauth client file"},
		{name: "missing secret", path: missingSecret, wantMsg: "validation failed"},
		{name: "not found", path: filepath.Join(dir, "nope.json"), wantMsg: "failed to read oauth client file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOAuthClientFromPath(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
