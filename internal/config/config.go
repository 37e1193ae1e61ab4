package config

import (
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	rerrors "github.com/kcartlidge/ruthless/internal/errors"
)

// DefaultTheme is the theme folder, relative to the site folder, used when
// site.theme is not set.
const DefaultTheme = "themes/default"

// Site is the validated, read-only site configuration handed to every
// pipeline stage.
type Site struct {
	Title    string
	Blurb    string
	Footer   string
	Keywords string
	// Theme is relative to the site folder.
	Theme         string
	UseExtensions bool
	Beautify      bool
	Settings      map[string]string
	Menu          []MenuItem
}

// MenuItem is one navigation entry; order in the file is kept.
type MenuItem struct {
	Label string `mapstructure:"label" yaml:"label"`
	Href  string `mapstructure:"href" yaml:"href"`
}

// Anchor renders the entry as an HTML link.
func (m MenuItem) Anchor() string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(m.Href), m.Label)
}

// MenuAnchors renders every menu entry in order.
func (s *Site) MenuAnchors() []string {
	out := make([]string, 0, len(s.Menu))
	for _, m := range s.Menu {
		out = append(out, m.Anchor())
	}
	return out
}

// file is the on-disk shape of ruthless.yaml.
type file struct {
	Site struct {
		Title    string `mapstructure:"title" yaml:"title"`
		Blurb    string `mapstructure:"blurb" yaml:"blurb"`
		Footer   string `mapstructure:"footer" yaml:"footer"`
		Keywords string `mapstructure:"keywords" yaml:"keywords,omitempty"`
		Theme    string `mapstructure:"theme" yaml:"theme,omitempty"`
	} `mapstructure:"site" yaml:"site"`
	Options struct {
		Extensions bool `mapstructure:"extensions" yaml:"extensions"`
		Beautify   bool `mapstructure:"beautify" yaml:"beautify"`
	} `mapstructure:"options" yaml:"options"`
	Settings map[string]string `mapstructure:"settings" yaml:"settings,omitempty"`
	Menu     []MenuItem        `mapstructure:"menu" yaml:"menu,omitempty"`
}

// Save writes the configuration as YAML to path, creating its folder.
func Save(s *Site, path string) error {
	var f file
	f.Site.Title = s.Title
	f.Site.Blurb = s.Blurb
	f.Site.Footer = s.Footer
	f.Site.Keywords = s.Keywords
	f.Site.Theme = s.Theme
	f.Options.Extensions = s.UseExtensions
	f.Options.Beautify = s.Beautify
	f.Settings = s.Settings
	f.Menu = s.Menu

	b, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load reads the site configuration from path with RUTHLESS_ environment
// overrides (RUTHLESS_SITE_TITLE overrides site.title), then validates it.
// Precedence: env > config file > defaults.
func Load(path string) (*Site, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, rerrors.ConfigNotFound(path)
		}
		return nil, rerrors.ConfigInvalid(path, err)
	}

	v := viper.New()
	v.SetEnvPrefix("RUTHLESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults; the empty strings make the keys known so env overrides apply.
	v.SetDefault("site.title", "")
	v.SetDefault("site.blurb", "")
	v.SetDefault("site.footer", "")
	v.SetDefault("site.keywords", "")
	v.SetDefault("site.theme", DefaultTheme)
	v.SetDefault("options.extensions", false)
	v.SetDefault("options.beautify", true)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, rerrors.ConfigInvalid(path, err)
	}

	var f file
	if err := v.Unmarshal(&f); err != nil {
		return nil, rerrors.ConfigInvalid(path, fmt.Errorf("unmarshal config: %w", err))
	}
	settings, err := readSettings(path, v)
	if err != nil {
		return nil, rerrors.ConfigInvalid(path, err)
	}

	s := &Site{
		Title:         strings.TrimSpace(f.Site.Title),
		Blurb:         strings.TrimSpace(f.Site.Blurb),
		Footer:        strings.TrimSpace(f.Site.Footer),
		Keywords:      f.Site.Keywords,
		Theme:         f.Site.Theme,
		UseExtensions: f.Options.Extensions,
		Beautify:      f.Options.Beautify,
		Settings:      settings,
		Menu:          f.Menu,
	}
	if s.Settings == nil {
		s.Settings = map[string]string{}
	}
	if s.Theme == "" {
		s.Theme = DefaultTheme
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// readSettings decodes the settings section straight from the YAML so keys
// keep their case; viper folds every key to lower case. Values still come
// from viper so RUTHLESS_SETTINGS_<KEY> overrides apply.
func readSettings(path string, v *viper.Viper) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var doc struct {
		Settings map[string]string `yaml:"settings"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	settings := make(map[string]string, len(doc.Settings))
	for k, val := range doc.Settings {
		key := "settings." + strings.ToLower(k)
		if v.IsSet(key) {
			val = v.GetString(key)
		}
		settings[k] = val
	}
	return settings, nil
}

// Validate checks the mandatory fields.
func (s *Site) Validate() error {
	switch {
	case s.Title == "":
		return rerrors.ConfigRequired("site.title")
	case s.Blurb == "":
		return rerrors.ConfigRequired("site.blurb")
	case s.Footer == "":
		return rerrors.ConfigRequired("site.footer")
	}
	for i, m := range s.Menu {
		if m.Label == "" || m.Href == "" {
			return rerrors.ValidationFailed(fmt.Sprintf("menu[%d]", i), "label and href are required")
		}
	}
	return nil
}
