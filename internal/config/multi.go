package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrNoProfile = errors.New("no config profile selected")

func configRoot() string {
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, "biliblock")
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "biliblock")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "biliblock")
}

func ProfilesDir() string {
	return filepath.Join(configRoot(), "profiles")
}

func currentLabelFile() string {
	return filepath.Join(configRoot(), "current_profile")
}

func ensureDirs() error {
	return os.MkdirAll(ProfilesDir(), 0755)
}

func CurrentLabel() (string, error) {
	if err := ensureDirs(); err != nil {
		return "", err
	}

	b, err := os.ReadFile(currentLabelFile())
	if os.IsNotExist(err) {
		return "", ErrNoProfile
	}
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}

func ProfilePath(label string) string {
	return filepath.Join(ProfilesDir(), label+".yaml")
}

func ActiveProfilePath() (string, error) {
	label, err := CurrentLabel()
	if err != nil || label == "" {
		return "", ErrNoProfile
	}

	return ProfilePath(label), nil
}

type Profile struct {
	Label  string
	Path   string
	Active bool
}

func ListProfiles() ([]Profile, error) {
	if err := ensureDirs(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(ProfilesDir())
	if err != nil {
		return nil, err
	}

	active, _ := CurrentLabel()

	var out []Profile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}

		label := strings.TrimSuffix(e.Name(), ".yaml")
		out = append(out, Profile{
			Label:  label,
			Path:   ProfilePath(label),
			Active: label == active,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func SwitchProfile(label string) error {
	if strings.TrimSpace(label) == "" {
		return errors.New("label cannot be empty")
	}
	if err := ensureDirs(); err != nil {
		return err
	}

	if _, err := os.Stat(ProfilePath(label)); err != nil {
		return fmt.Errorf("profile %q does not exist", label)
	}

	return os.WriteFile(currentLabelFile(), []byte(label), 0644)
}

// InitDefaultProfile writes the Default profile and makes it active. Returns
// os.ErrExist when the profile was already there.
func InitDefaultProfile() (string, error) {
	if err := ensureDirs(); err != nil {
		return "", err
	}

	path := ProfilePath("Default")

	if _, err := os.Stat(path); err == nil {
		_ = os.WriteFile(currentLabelFile(), []byte("Default"), 0644)
		return path, os.ErrExist
	}

	if err := SaveYAML(DefaultConfig(), path); err != nil {
		return "", err
	}

	_ = os.WriteFile(currentLabelFile(), []byte("Default"), 0644)
	return path, nil
}
