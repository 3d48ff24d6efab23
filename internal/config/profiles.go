package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	DefaultProfileName = "local"
	DefaultAddress     = "localhost:7233"
	DefaultNamespace   = "default"
)

var (
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileNotFound = errors.New("profile not found")
)

// TLS configures transport security for a profile. A tls block without an
// enabled key is treated as enabled.
type TLS struct {
	Enabled  bool   `yaml:"enabled"`
	CertPath string `yaml:"cert_path,omitempty"`
	KeyPath  string `yaml:"key_path,omitempty"`
	CAPath   string `yaml:"ca_path,omitempty"`
}

func (t *TLS) UnmarshalYAML(node *yaml.Node) error {
	type plain TLS
	raw := plain{Enabled: true}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*t = TLS(raw)
	return nil
}

// Profile is one named connection.
type Profile struct {
	Name      string `yaml:"name"`
	Address   string `yaml:"address"`
	Namespace string `yaml:"namespace"`
	TLS       *TLS   `yaml:"tls,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`
}

// TLSEnabled reports whether the profile uses TLS.
func (p Profile) TLSEnabled() bool {
	return p.TLS != nil && p.TLS.Enabled
}

// Redacted returns a copy safe for logs and listings.
func (p Profile) Redacted() Profile {
	if p.APIKey != "" {
		p.APIKey = "****"
	}
	return p
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (%s, namespace %s, tls=%t, api_key=%t)", p.Name, p.Address, p.Namespace, p.TLSEnabled(), p.APIKey != "")
}

// File is the profiles file.
type File struct {
	Profiles      []Profile `yaml:"profiles"`
	ActiveProfile string    `yaml:"active_profile,omitempty"`
}

// DefaultFile is used when no profiles file exists.
func DefaultFile() File {
	return File{
		Profiles: []Profile{{
			Name:      DefaultProfileName,
			Address:   DefaultAddress,
			Namespace: DefaultNamespace,
		}},
		ActiveProfile: DefaultProfileName,
	}
}

// DefaultConfigPath returns ~/.tuiporal/config.yaml, falling back to the XDG
// config dir when the home directory is unknown.
func DefaultConfigPath() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".tuiporal", "config.yaml")
	}
	return filepath.Join(xdg.ConfigHome, "tuiporal", "config.yaml")
}

// LoadProfiles reads the profiles file at path. A missing file yields
// DefaultFile.
func LoadProfiles(path string) (File, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultFile(), nil
	}
	if err != nil {
		return File{}, fmt.Errorf("read profiles %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	return f, nil
}

// ActiveName returns the name Active would select for override.
func (f File) ActiveName(override string) string {
	switch {
	case override != "":
		return override
	case f.ActiveProfile != "":
		return f.ActiveProfile
	case len(f.Profiles) > 0:
		return f.Profiles[0].Name
	default:
		return ""
	}
}

// Active selects the profile named override, else active_profile, else the
// first profile.
func (f File) Active(override string) (Profile, error) {
	if len(f.Profiles) == 0 {
		return Profile{}, ErrNoProfiles
	}
	name := f.ActiveName(override)
	for _, p := range f.Profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
}

// ResolveProfile loads path and returns the selected profile with the
// namespace override applied.
func ResolveProfile(c Connection) (Profile, error) {
	f, err := LoadProfiles(c.ConfigPath)
	if err != nil {
		return Profile{}, err
	}
	p, err := f.Active(c.Profile)
	if err != nil {
		return Profile{}, err
	}
	if c.Namespace != "" {
		p.Namespace = c.Namespace
	}
	if p.Namespace == "" {
		p.Namespace = DefaultNamespace
	}
	if strings.TrimSpace(p.Address) == "" {
		return Profile{}, fmt.Errorf("profile %q has no address", p.Name)
	}
	return p, nil
}
