package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DefaultURL string `yaml:"default_url"`

	ContainerSelector string `yaml:"container_selector"`
	LinkSelector      string `yaml:"link_selector"`

	Expand  bool `yaml:"expand"`
	DelayMS int  `yaml:"delay_ms"`
	Yes     bool `yaml:"yes"`
	Debug   bool `yaml:"debug"`

	Cookie     string `yaml:"cookie"`
	CookieFile string `yaml:"cookie_file"`
	UserAgent  string `yaml:"user_agent"`
}

type Options struct {
	IgnoreConfig bool
	Debug        bool
	URL          string
	Container    string
	Link         string
	Expand       bool
	DelayMS      int
	Yes          bool
	Cookie       string
	CookieFile   string
	UserAgent    string
}

// CookieEnvVar is the lowest-priority credential source, read from the
// environment or a .env file next to the working directory.
const CookieEnvVar = "BILIBLOCK_COOKIE"

func DefaultConfig() *Config {
	return &Config{
		ContainerSelector: "#reco_list",
		LinkSelector:      ".upname a",
		DelayMS:           2000,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

// LoadMerged layers the active profile under the CLI flags: flag values win,
// then the profile, then defaults, then the environment cookie.
func LoadMerged(opts Options) (*Config, string, error) {
	cfg := DefaultConfig()
	usedPath := "(ignored config)"

	if !opts.IgnoreConfig {
		activePath, err := ActiveProfilePath()
		switch {
		case err == ErrNoProfile || activePath == "":
			usedPath = "(default config in memory)\nRun `biliblock config init` to create one\n"
		case err != nil:
			return nil, "", err
		default:
			cfg, err = loadYAML(activePath)
			if err != nil {
				return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
			}
			usedPath = activePath
		}
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	if cfg.Cookie == "" && cfg.CookieFile == "" {
		_ = godotenv.Load()
		cfg.Cookie = os.Getenv(CookieEnvVar)
	}

	return cfg, usedPath, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Debug {
		c.Debug = true
	}
	if o.URL != "" {
		c.DefaultURL = o.URL
	}
	if o.Container != "" {
		c.ContainerSelector = o.Container
	}
	if o.Link != "" {
		c.LinkSelector = o.Link
	}
	if o.Expand {
		c.Expand = true
	}
	if o.DelayMS != 0 {
		c.DelayMS = o.DelayMS
	}
	if o.Yes {
		c.Yes = true
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
}

func normalizeDefaults(c *Config) {
	def := DefaultConfig()

	if c.ContainerSelector == "" {
		c.ContainerSelector = def.ContainerSelector
	}
	if c.LinkSelector == "" {
		c.LinkSelector = def.LinkSelector
	}
	if c.DelayMS <= 0 {
		c.DelayMS = def.DelayMS
	}
}

func (c *Config) Print() {
	if c.DefaultURL != "" {
		fmt.Printf(" -default_url: %s\n", c.DefaultURL)
	}
	fmt.Printf(" -container_selector: %s\n", c.ContainerSelector)
	fmt.Printf(" -link_selector: %s\n", c.LinkSelector)
	fmt.Printf(" -delay_ms: %d\n", c.DelayMS)
	if c.Expand {
		fmt.Printf(" -expand: %t\n", c.Expand)
	}
	if c.Yes {
		fmt.Printf(" -yes: %t\n", c.Yes)
	}
	if c.Debug {
		fmt.Printf(" -debug: %t\n", c.Debug)
	}
	if c.CookieFile != "" {
		fmt.Printf(" -cookie_file: %s\n", c.CookieFile)
	}
	if c.Cookie != "" {
		fmt.Printf(" -cookie: (set, %d bytes)\n", len(c.Cookie))
	}
	if c.UserAgent != "" {
		fmt.Printf(" -user_agent: %s\n", c.UserAgent)
	}
}
