// Package config loads the reporter configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoFolders is returned when the configuration lists no folders
	ErrNoFolders = errors.New("no folders configured")
)

// DuplicateFolderError is returned when two folder keys resolve to the same
// directory
type DuplicateFolderError struct {
	Path string
	Keys []string
}

func (e *DuplicateFolderError) Error() string {
	return fmt.Sprintf("folder %s configured more than once (%s)", e.Path, strings.Join(e.Keys, ", "))
}

const (
	DefaultSubject = "Change Report"
	DefaultTimeout = 60 * time.Second
)

// Server holds SMTP connection settings
type Server struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Domain   string `yaml:"domain"`
	Timeout  uint   `yaml:"timeout"` // seconds

	// Older configurations put the addresses on the server
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Email holds message addressing
type Email struct {
	From    string   `yaml:"from"`
	To      []string `yaml:"to"`
	Subject string   `yaml:"subject"`
}

// Policy controls how a folder is scanned
type Policy struct {
	Exclude  []string `yaml:"exclude"`
	Packages []string `yaml:"packages"`
}

// StateConfig locates the persisted baseline
type StateConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

// Config is the reporter configuration. Keys follow the JSON files written
// for earlier versions, which remain valid since JSON is a subset of YAML.
type Config struct {
	MailServer     Server            `yaml:"mailServer"`
	Email          *Email            `yaml:"email"`
	Folders        map[string]Policy `yaml:"folders"`
	State          StateConfig       `yaml:"state"`
	Concurrency    int               `yaml:"concurrency"`
	SkipUnreadable bool              `yaml:"skipUnreadable"`
	IsolateRoots   bool              `yaml:"isolateRoots"`
}

// Folder is a configured root with its expanded absolute path
type Folder struct {
	Path   string
	Policy Policy
}

// Dir returns the default configuration directory
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".reporter"
	}
	return filepath.Join(home, ".config", "reporter")
}

// DefaultPath returns the configuration file used when none is given,
// preferring config.yaml and falling back to an existing config.json
func DefaultPath() string {
	yamlPath := filepath.Join(Dir(), "config.yaml")
	jsonPath := filepath.Join(Dir(), "config.json")
	if _, err := os.Stat(yamlPath); err != nil {
		if _, err := os.Stat(jsonPath); err == nil {
			return jsonPath
		}
	}
	return yamlPath
}

// DefaultStatePath returns the snapshot file used when none is configured
func DefaultStatePath() string {
	return filepath.Join(Dir(), "snapshot")
}

// Load reads and validates the configuration at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates configuration data
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration can drive a run
func (c *Config) Validate() error {
	if len(c.Folders) == 0 {
		return ErrNoFolders
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if _, err := c.Roots(); err != nil {
		return err
	}
	return nil
}

// Roots returns the configured folders with expanded, cleaned absolute paths,
// sorted by path. Keys that resolve to the same directory are rejected.
func (c *Config) Roots() ([]Folder, error) {
	folders := make([]Folder, 0, len(c.Folders))
	keys := make(map[string][]string, len(c.Folders))
	for path, policy := range c.Folders {
		abs, err := filepath.Abs(ExpandPath(path))
		if err != nil {
			return nil, fmt.Errorf("resolve folder %q: %w", path, err)
		}
		keys[abs] = append(keys[abs], path)
		if len(keys[abs]) == 1 {
			folders = append(folders, Folder{Path: abs, Policy: policy})
		}
	}
	for _, f := range folders {
		if dup := keys[f.Path]; len(dup) > 1 {
			sort.Strings(dup)
			return nil, &DuplicateFolderError{Path: f.Path, Keys: dup}
		}
	}
	sort.Slice(folders, func(i, j int) bool {
		return folders[i].Path < folders[j].Path
	})
	return folders, nil
}

// StatePath returns the expanded state location
func (c *Config) StatePath() string {
	if c.State.Path == "" {
		return DefaultStatePath()
	}
	return ExpandPath(c.State.Path)
}

// Workers returns the digest concurrency, defaulting to GOMAXPROCS*4
func (c *Config) Workers() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return runtime.GOMAXPROCS(0) * 4
}

// Sender returns the From address
func (c *Config) Sender() string {
	if c.Email != nil && c.Email.From != "" {
		return c.Email.From
	}
	return c.MailServer.From
}

// Recipients returns the To addresses
func (c *Config) Recipients() []string {
	if c.Email != nil && len(c.Email.To) > 0 {
		return c.Email.To
	}
	if c.MailServer.To != "" {
		return []string{c.MailServer.To}
	}
	return nil
}

// Subject returns the message subject
func (c *Config) Subject() string {
	if c.Email != nil && c.Email.Subject != "" {
		return c.Email.Subject
	}
	return DefaultSubject
}

// Timeout returns the SMTP timeout
func (c *Config) Timeout() time.Duration {
	if c.MailServer.Timeout == 0 {
		return DefaultTimeout
	}
	return time.Duration(c.MailServer.Timeout) * time.Second
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
