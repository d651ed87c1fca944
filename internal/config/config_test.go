package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateConfigDir(t *testing.T) {
	t.Helper()
	t.Setenv("APPDATA", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(CookieEnvVar, "")
}

func TestLoadMergedDefaults(t *testing.T) {
	isolateConfigDir(t)

	cfg, _, err := LoadMerged(Options{IgnoreConfig: true})
	require.NoError(t, err)

	assert.Equal(t, "#reco_list", cfg.ContainerSelector)
	assert.Equal(t, ".upname a", cfg.LinkSelector)
	assert.Equal(t, 2000, cfg.DelayMS)
	assert.False(t, cfg.Expand)
	assert.Empty(t, cfg.Cookie)
}

func TestLoadMergedFlagsWin(t *testing.T) {
	isolateConfigDir(t)

	cfg, _, err := LoadMerged(Options{
		IgnoreConfig: true,
		URL:          "https://www.bilibili.com/video/BV1xx411c7mD",
		Container:    "#other",
		DelayMS:      500,
		Expand:       true,
		Yes:          true,
		Cookie:       "bili_jct=tok",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://www.bilibili.com/video/BV1xx411c7mD", cfg.DefaultURL)
	assert.Equal(t, "#other", cfg.ContainerSelector)
	assert.Equal(t, ".upname a", cfg.LinkSelector)
	assert.Equal(t, 500, cfg.DelayMS)
	assert.True(t, cfg.Expand)
	assert.True(t, cfg.Yes)
	assert.Equal(t, "bili_jct=tok", cfg.Cookie)
}

func TestLoadMergedEnvCookieFallback(t *testing.T) {
	isolateConfigDir(t)
	t.Setenv(CookieEnvVar, "bili_jct=fromenv")

	t.Run("used when nothing else is set", func(t *testing.T) {
		cfg, _, err := LoadMerged(Options{IgnoreConfig: true})
		require.NoError(t, err)
		assert.Equal(t, "bili_jct=fromenv", cfg.Cookie)
	})

	t.Run("flag cookie wins", func(t *testing.T) {
		cfg, _, err := LoadMerged(Options{IgnoreConfig: true, Cookie: "bili_jct=flag"})
		require.NoError(t, err)
		assert.Equal(t, "bili_jct=flag", cfg.Cookie)
	})

	t.Run("cookie file disables fallback", func(t *testing.T) {
		cfg, _, err := LoadMerged(Options{IgnoreConfig: true, CookieFile: "/tmp/cookies.txt"})
		require.NoError(t, err)
		assert.Empty(t, cfg.Cookie)
	})
}

func TestLoadMergedActiveProfile(t *testing.T) {
	isolateConfigDir(t)

	saved := DefaultConfig()
	saved.DefaultURL = "https://www.bilibili.com/video/BV1xx411c7mD"
	saved.DelayMS = 1234

	require.NoError(t, os.MkdirAll(ProfilesDir(), 0755))
	require.NoError(t, SaveYAML(saved, ProfilePath("Work")))
	require.NoError(t, SwitchProfile("Work"))

	cfg, used, err := LoadMerged(Options{})
	require.NoError(t, err)

	assert.Equal(t, ProfilePath("Work"), used)
	assert.Equal(t, saved.DefaultURL, cfg.DefaultURL)
	assert.Equal(t, 1234, cfg.DelayMS)

	// Flag still overrides the profile.
	cfg, _, err = LoadMerged(Options{DelayMS: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.DelayMS)
}

func TestInitDefaultProfile(t *testing.T) {
	isolateConfigDir(t)

	path, err := InitDefaultProfile()
	require.NoError(t, err)
	assert.Equal(t, ProfilePath("Default"), path)

	label, err := CurrentLabel()
	require.NoError(t, err)
	assert.Equal(t, "Default", label)

	// Second init reports the existing file instead of overwriting it.
	_, err = InitDefaultProfile()
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestListProfiles(t *testing.T) {
	isolateConfigDir(t)

	require.NoError(t, os.MkdirAll(ProfilesDir(), 0755))
	require.NoError(t, SaveYAML(DefaultConfig(), ProfilePath("B")))
	require.NoError(t, SaveYAML(DefaultConfig(), ProfilePath("A")))
	require.NoError(t, os.WriteFile(filepath.Join(ProfilesDir(), "notes.txt"), []byte("x"), 0644))
	require.NoError(t, SwitchProfile("B"))

	profiles, err := ListProfiles()
	require.NoError(t, err)

	require.Len(t, profiles, 2)
	assert.Equal(t, "A", profiles[0].Label)
	assert.False(t, profiles[0].Active)
	assert.Equal(t, "B", profiles[1].Label)
	assert.True(t, profiles[1].Active)
}

func TestSwitchProfileMissing(t *testing.T) {
	isolateConfigDir(t)

	assert.Error(t, SwitchProfile("Nope"))
	assert.Error(t, SwitchProfile(""))
}
