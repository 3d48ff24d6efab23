package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfiles = `
active_profile: staging
profiles:
  - name: local
    address: localhost:7233
    namespace: default
  - name: staging
    address: staging.example.com:7233
    namespace: orders
    tls:
      ca_path: /etc/ca.pem
  - name: cloud
    address: acme.tmprl.cloud:7233
    namespace: acme.prod
    tls:
      enabled: false
    api_key: secret-key
`

func writeProfiles(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadProfilesMissingFileUsesDefault(t *testing.T) {
	f, err := LoadProfiles(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultFile(), f)

	p, err := f.Active("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAddress, p.Address)
	assert.Equal(t, DefaultNamespace, p.Namespace)
}

func TestLoadProfilesParses(t *testing.T) {
	f, err := LoadProfiles(writeProfiles(t, sampleProfiles))
	require.NoError(t, err)
	require.Len(t, f.Profiles, 3)

	staging := f.Profiles[1]
	require.NotNil(t, staging.TLS)
	assert.True(t, staging.TLS.Enabled, "tls block without enabled defaults to true")
	assert.Equal(t, "/etc/ca.pem", staging.TLS.CAPath)
	assert.True(t, staging.TLSEnabled())

	cloud := f.Profiles[2]
	require.NotNil(t, cloud.TLS)
	assert.False(t, cloud.TLSEnabled())
	assert.False(t, f.Profiles[0].TLSEnabled())
}

func TestLoadProfilesInvalidYAML(t *testing.T) {
	_, err := LoadProfiles(writeProfiles(t, "profiles: [\n"))
	assert.ErrorContains(t, err, "parse profiles")
}

func TestActiveSelection(t *testing.T) {
	f, err := LoadProfiles(writeProfiles(t, sampleProfiles))
	require.NoError(t, err)

	p, err := f.Active("")
	require.NoError(t, err)
	assert.Equal(t, "staging", p.Name)

	p, err = f.Active("cloud")
	require.NoError(t, err)
	assert.Equal(t, "acme.prod", p.Namespace)

	_, err = f.Active("nope")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = File{}.Active("")
	assert.ErrorIs(t, err, ErrNoProfiles)

	first := File{Profiles: []Profile{{Name: "a", Address: "a:1"}, {Name: "b", Address: "b:1"}}}
	assert.Equal(t, "a", first.ActiveName(""))
}

func TestResolveProfile(t *testing.T) {
	path := writeProfiles(t, sampleProfiles)

	p, err := ResolveProfile(Connection{ConfigPath: path, Profile: "local", Namespace: "payments"})
	require.NoError(t, err)
	assert.Equal(t, "payments", p.Namespace)

	p, err = ResolveProfile(Connection{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "orders", p.Namespace)

	noAddr := writeProfiles(t, "profiles:\n  - name: broken\n")
	_, err = ResolveProfile(Connection{ConfigPath: noAddr})
	assert.ErrorContains(t, err, "has no address")
}

func TestProfileRedaction(t *testing.T) {
	p := Profile{Name: "cloud", Address: "x:7233", Namespace: "ns", APIKey: "secret"}
	assert.Equal(t, "****", p.Redacted().APIKey)
	assert.Equal(t, "secret", p.APIKey)
	assert.NotContains(t, p.String(), "secret")
	assert.Contains(t, p.String(), "api_key=true")
	assert.Empty(t, Profile{}.Redacted().APIKey)
}
