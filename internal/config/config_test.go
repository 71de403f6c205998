package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(`
mailServer:
  host: smtp.example.com
  port: 587
  username: user
  password: secret
  domain: example.com
email:
  from: reporter@example.com
  to: [a@example.com, b@example.com]
  subject: Sync changes
folders:
  /srv/sync:
    exclude: ["*.tmp"]
  /srv/photos: {}
state:
  path: /var/lib/reporter/state.db
concurrency: 8
skipUnreadable: true
`))
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com", cfg.MailServer.Host)
	assert.Equal(t, 587, cfg.MailServer.Port)
	assert.Equal(t, "reporter@example.com", cfg.Sender())
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Recipients())
	assert.Equal(t, "Sync changes", cfg.Subject())
	assert.Equal(t, DefaultTimeout, cfg.Timeout())
	assert.Equal(t, "/var/lib/reporter/state.db", cfg.StatePath())
	assert.Equal(t, 8, cfg.Workers())
	assert.True(t, cfg.SkipUnreadable)
	assert.False(t, cfg.IsolateRoots)

	roots, err := cfg.Roots()
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, filepath.Clean("/srv/photos"), roots[0].Path)
	assert.Equal(t, filepath.Clean("/srv/sync"), roots[1].Path)
	assert.Equal(t, []string{"*.tmp"}, roots[1].Policy.Exclude)
}

func TestParseLegacyJSON(t *testing.T) {
	cfg, err := Parse([]byte(`{
		"mailServer": {
			"host": "smtp.example.com",
			"port": 587,
			"username": "user",
			"password": "secret",
			"domain": "example.com",
			"timeout": 30,
			"from": "reporter@example.com",
			"to": "me@example.com"
		},
		"folders": {
			"~/Sync": {}
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "reporter@example.com", cfg.Sender())
	assert.Equal(t, []string{"me@example.com"}, cfg.Recipients())
	assert.Equal(t, DefaultSubject, cfg.Subject())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, DefaultStatePath(), cfg.StatePath())

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	roots, err := cfg.Roots()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Sync"), roots[0].Path)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`mailServer: {host: x}`))
	assert.ErrorIs(t, err, ErrNoFolders)

	_, err = Parse([]byte(`folders: [unclosed`))
	assert.Error(t, err)

	_, err = Parse([]byte("folders: {/a: {}}\nconcurrency: -1"))
	assert.Error(t, err)
}

func TestParseDuplicateFolders(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cases := map[string]string{
		"tilde and absolute": "folders:\n  \"~/Files\": {}\n  \"" + filepath.ToSlash(filepath.Join(home, "Files")) + "/\": {}\n",
		"trailing slash":     "folders:\n  /srv/a: {}\n  /srv/a/: {}\n",
		"dot segments":       "folders:\n  /srv/a: {}\n  /srv/b/../a: {exclude: [\"*.tmp\"]}\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			var dup *DuplicateFolderError
			require.ErrorAs(t, err, &dup)
			assert.Len(t, dup.Keys, 2)
		})
	}

	cfg := &Config{Folders: map[string]Policy{"/srv/a": {}, "/srv/a/": {}}}
	_, err = cfg.Roots()
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("folders: {/tmp: {}}"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Folders, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "Documents"), ExpandPath("~/Documents"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
	assert.Equal(t, "~user/x", ExpandPath("~user/x"))
}
