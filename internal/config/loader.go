package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".linkscout"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// HostConfig holds crawl overrides for a single host. This lets one config
// file carry tuned settings for the handful of sites a user audits regularly.
type HostConfig struct {
	// UserAgent overrides the User-Agent header for this host.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Delay overrides the inter-request pause for this host.
	Delay Duration `yaml:"delay,omitempty"`

	// MaxPages overrides the page-count safety valve. Zero keeps the global
	// setting.
	MaxPages int `yaml:"maxPages,omitempty"`

	// ExclusionPatterns replaces the landing-page exclusion substrings.
	ExclusionPatterns []string `yaml:"exclusionPatterns,omitempty"`

	// SkipExtensions replaces the non-page extension list.
	SkipExtensions []string `yaml:"skipExtensions,omitempty"`
}

// File represents the structure of the .linkscout configuration file.
type File struct {
	// Defaults applies to every host unless overridden.
	Defaults HostConfig `yaml:"defaults,omitempty"`

	// Hosts maps a host name (e.g. "www.example.com") to its overrides.
	Hosts map[string]HostConfig `yaml:"hosts,omitempty"`
}

// GetHostConfig returns the effective configuration for a host, merging the
// host-specific overrides over the file's defaults.
func (f *File) GetHostConfig(host string) HostConfig {
	result := f.Defaults

	hc, ok := f.Hosts[host]
	if !ok {
		return result
	}

	if hc.UserAgent != "" {
		result.UserAgent = hc.UserAgent
	}
	if !hc.Delay.IsZero() {
		result.Delay = hc.Delay
	}
	if hc.MaxPages > 0 {
		result.MaxPages = hc.MaxPages
	}
	if len(hc.ExclusionPatterns) > 0 {
		result.ExclusionPatterns = hc.ExclusionPatterns
	}
	if len(hc.SkipExtensions) > 0 {
		result.SkipExtensions = hc.SkipExtensions
	}

	return result
}

// LoadConfigFile loads host configurations from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; callers decide
// whether that matters based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	if f.Hosts == nil {
		f.Hosts = make(map[string]HostConfig)
	}

	return &f, nil
}

// FindConfigFile searches for the configuration file:
//  1. If configPath is specified, use it directly
//  2. Look for .linkscout in the current directory
//  3. Look for .linkscout in the user's home directory
//
// Returns the path if found, or empty string if not.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
