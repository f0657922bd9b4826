package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ProfilesConfig holds all named deploy profiles and tracks which one is active.
type ProfilesConfig struct {
	Active   string             `toml:"active"`
	Profiles map[string]Profile `toml:"profiles"`
}

// Profile is a named deploy target.
type Profile struct {
	Region      string `toml:"region,omitempty"`
	Stage       string `toml:"stage,omitempty"`
	Endpoint    string `toml:"endpoint,omitempty"`
	NATSURL     string `toml:"nats_url,omitempty"`
	Description string `toml:"description,omitempty"`
}

func profilesPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "snsev")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "profiles.toml"), nil
}

// LoadProfiles reads the profiles file, returning an empty config when the
// file does not exist yet.
func LoadProfiles() (ProfilesConfig, error) {
	path, err := profilesPath()
	if err != nil {
		return ProfilesConfig{}, err
	}
	var cfg ProfilesConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return ProfilesConfig{Profiles: map[string]Profile{}}, nil
		}
		return ProfilesConfig{}, err
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	return cfg, nil
}

// SaveProfiles writes the profiles file.
func SaveProfiles(cfg ProfilesConfig) error {
	path, err := profilesPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Apply overlays a named profile onto c. Fields already set (from env or
// flags) win over the profile's values.
func (c *Config) Apply(p Profile) {
	if c.Region == "" {
		c.Region = p.Region
	}
	if c.Stage == "" {
		c.Stage = p.Stage
	}
	if c.Endpoint == "" {
		c.Endpoint = p.Endpoint
	}
	if c.NATSURL == "" {
		c.NATSURL = p.NATSURL
	}
}

// ApplyNamed loads the profiles file and overlays the named profile (or the
// active one when name is empty). A missing name is an error; having no
// profiles file and no name is not.
func (c *Config) ApplyNamed(name string) error {
	profiles, err := LoadProfiles()
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	if name == "" {
		name = profiles.Active
	}
	if name == "" {
		return nil
	}
	p, ok := profiles.Profiles[name]
	if !ok {
		return fmt.Errorf("unknown profile %q", name)
	}
	c.Apply(p)
	return nil
}
