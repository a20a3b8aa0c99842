package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	cfg "github.com/toeirei/signwatch/internal/config"
)

// isolate points the user config dir at a temp dir so tests never read a
// developer's real signwatch.yaml.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	t.Chdir(tmp)
	return tmp
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	isolate(t)

	c, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Feed.Endpoint != "wss://bot.meml.xyz/sign/list" {
		t.Fatalf("unexpected endpoint %q", c.Feed.Endpoint)
	}
	if c.Feed.MaxAttempts != 5 || c.Feed.ReconnectDelay != "3s" {
		t.Fatalf("unexpected feed defaults: %+v", c.Feed)
	}
	if !c.Journal.Enabled || c.Journal.Type != "sqlite" {
		t.Fatalf("unexpected journal defaults: %+v", c.Journal)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	tmp := isolate(t)
	yml := "feed:\n  endpoint: ws://localhost:9000/feed\n  max_attempts: 2\nlanguage: zh\njournal:\n  type: postgres\n  dsn: postgresql://user@/db\n"
	file := filepath.Join(tmp, "custom.yaml")
	if err := os.WriteFile(file, []byte(yml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &file)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Feed.Endpoint != "ws://localhost:9000/feed" || c.Feed.MaxAttempts != 2 {
		t.Fatalf("file values not applied: %+v", c.Feed)
	}
	if c.Feed.ReconnectDelay != "3s" {
		t.Fatalf("defaults should fill unset keys, got %q", c.Feed.ReconnectDelay)
	}
	if c.Language != "zh" || c.Journal.Type != "postgres" {
		t.Fatalf("unexpected config: %+v", c)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	tmp := isolate(t)
	if err := os.WriteFile(filepath.Join(tmp, "signwatch.yaml"), []byte("feed:\n  max_attempts: 2\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("SIGNWATCH_FEED_MAX_ATTEMPTS", "9")

	c, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Feed.MaxAttempts != 9 {
		t.Fatalf("env should win over file, got %d", c.Feed.MaxAttempts)
	}
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	isolate(t)
	t.Setenv("SIGNWATCH_FEED_ENDPOINT", "ws://env/feed")

	cmd := &cobra.Command{}
	cmd.Flags().String("feed.endpoint", "", "")
	cmd.Flags().String("log.level", "", "")
	if err := cmd.Flags().Set("feed.endpoint", "ws://flag/feed"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	c, err := cfg.LoadConfig[cfg.Config](cmd, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Feed.Endpoint != "ws://flag/feed" {
		t.Fatalf("flag should win, got %q", c.Feed.Endpoint)
	}
	if c.Log.Level != "info" {
		t.Fatalf("unset flag must not clobber default, got %q", c.Log.Level)
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	tmp := isolate(t)
	file := filepath.Join(tmp, "broken.yaml")
	if err := os.WriteFile(file, []byte("feed: [unclosed"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &file); err == nil {
		t.Fatalf("expected error for malformed file")
	}
}

func TestWriteConfigFile_RoundTrip(t *testing.T) {
	isolate(t)

	c := cfg.Default()
	c.Feed.Endpoint = "ws://127.0.0.1:1/x"
	c.Theme = "dark"
	path, err := cfg.WriteConfigFile(&c, false)
	if err != nil {
		t.Fatalf("WriteConfigFile: %v", err)
	}
	want, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath: %v", err)
	}
	if path != want {
		t.Fatalf("wrote %s, expected %s", path, want)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600, got %v", info.Mode().Perm())
	}

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Feed.Endpoint != c.Feed.Endpoint || got.Theme != "dark" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestConfig_Conn(t *testing.T) {
	c := cfg.Default()
	c.Feed.ReconnectDelay = "250ms"
	cc, err := c.Conn()
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}
	if cc.ReconnectDelay != 250*time.Millisecond || cc.HeartbeatInterval != 30*time.Second {
		t.Fatalf("unexpected durations: %+v", cc)
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*cfg.Config)
		want   string
	}{
		{"empty endpoint", func(c *cfg.Config) { c.Feed.Endpoint = "" }, "endpoint"},
		{"http scheme", func(c *cfg.Config) { c.Feed.Endpoint = "http://example.com" }, "scheme"},
		{"bad delay", func(c *cfg.Config) { c.Feed.ReconnectDelay = "soon" }, "feed.reconnect_delay"},
		{"zero delay", func(c *cfg.Config) { c.Feed.ReconnectDelay = "0s" }, "reconnect delay"},
		{"no attempts", func(c *cfg.Config) { c.Feed.MaxAttempts = 0 }, "max attempts"},
		{"journal type", func(c *cfg.Config) { c.Journal.Type = "oracle" }, "journal.type"},
		{"journal dsn", func(c *cfg.Config) { c.Journal.Dsn = " " }, "journal.dsn"},
		{"theme", func(c *cfg.Config) { c.Theme = "sepia" }, "theme"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg.Default()
			tc.mutate(&c)
			err := c.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}

	c := cfg.Default()
	c.Journal.Enabled = false
	c.Journal.Type = "oracle"
	if err := c.Validate(); err != nil {
		t.Fatalf("disabled journal should not be validated: %v", err)
	}
}
