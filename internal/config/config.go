// Package config provides the configuration of the ntjs host, loaded with viper from a YAML file, NTJS_
// environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/syntax-framework/ntjs"
)

// EnvPrefix prefix of the environment variables, "script.debug" -> NTJS_SCRIPT_DEBUG
const EnvPrefix = "NTJS"

// DefaultFile config file searched in the working directory when none is informed
const DefaultFile = "ntjs.yaml"

// ScriptConfig options of the per request factories
type ScriptConfig struct {
	BaseURL     string                 `mapstructure:"base_url"`
	AssetPrefix string                 `mapstructure:"asset_prefix"`
	Namespace   string                 `mapstructure:"namespace"`
	Debug       bool                   `mapstructure:"debug"`
	UseCDN      bool                   `mapstructure:"use_cdn"`
	Bootstrap   []ntjs.BootstrapScript `mapstructure:"bootstrap"`
}

// CatalogConfig files of the package catalog
type CatalogConfig struct {
	Packages string `mapstructure:"packages"` // YAML package list
	CDN      string `mapstructure:"cdn"`      // JSON CDN catalog, optional
}

// Config holds all configuration options of the host.
type Config struct {
	Addr          string            `mapstructure:"addr"`
	Templates     string            `mapstructure:"templates"`    // directory of the .html templates
	Static        string            `mapstructure:"static"`       // directory served under the asset prefix
	Translations  string            `mapstructure:"translations"` // directory of the <domain>.yaml catalogs
	Routes        map[string]string `mapstructure:"routes"`       // route name -> path pattern
	Watch         bool              `mapstructure:"watch"`
	WatchDebounce time.Duration     `mapstructure:"watch_debounce"`
	CacheTTL      time.Duration     `mapstructure:"cache_ttl"`
	Catalog       CatalogConfig     `mapstructure:"catalog"`
	Script        ScriptConfig      `mapstructure:"script"`
}

// Defaults returns the configuration used when nothing is informed.
func Defaults() Config {
	options := ntjs.DefaultOptions()
	return Config{
		Addr:          ":8080",
		Templates:     "templates",
		Static:        "static",
		Translations:  "translations",
		Watch:         false,
		WatchDebounce: 300 * time.Millisecond,
		CacheTTL:      10 * time.Minute,
		Catalog: CatalogConfig{
			Packages: "catalog/packages.yaml",
			CDN:      "catalog/cdn.json",
		},
		Script: ScriptConfig{
			AssetPrefix: options.AssetPrefix,
			Namespace:   options.Namespace,
			Debug:       options.Debug,
			Bootstrap:   options.Bootstrap,
		},
	}
}

// SetDefaults registers the defaults in viper, every key is also readable from the environment.
func SetDefaults(v *viper.Viper) {
	defaults := Defaults()
	v.SetDefault("addr", defaults.Addr)
	v.SetDefault("templates", defaults.Templates)
	v.SetDefault("static", defaults.Static)
	v.SetDefault("translations", defaults.Translations)
	v.SetDefault("routes", map[string]string{})
	v.SetDefault("watch", defaults.Watch)
	v.SetDefault("watch_debounce", defaults.WatchDebounce)
	v.SetDefault("cache_ttl", defaults.CacheTTL)
	v.SetDefault("catalog.packages", defaults.Catalog.Packages)
	v.SetDefault("catalog.cdn", defaults.Catalog.CDN)
	v.SetDefault("script.base_url", defaults.Script.BaseURL)
	v.SetDefault("script.asset_prefix", defaults.Script.AssetPrefix)
	v.SetDefault("script.namespace", defaults.Script.Namespace)
	v.SetDefault("script.debug", defaults.Script.Debug)
	v.SetDefault("script.use_cdn", defaults.Script.UseCDN)

	bootstrap := make([]map[string]any, 0, len(defaults.Script.Bootstrap))
	for _, b := range defaults.Script.Bootstrap {
		bootstrap = append(bootstrap, map[string]any{"name": b.Name, "depends": b.Depends})
	}
	v.SetDefault("script.bootstrap", bootstrap)
}

// Load reads the config file (the informed one or ntjs.yaml in the working directory, when present) and the
// environment. A missing default file is not an error.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := file
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that would fail later with a less clear message
func (c Config) Validate() error {
	if strings.TrimSpace(c.Templates) == "" {
		return errors.New("config: templates directory is required")
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("config: watch_debounce must not be negative, got %s", c.WatchDebounce)
	}
	for i, b := range c.Script.Bootstrap {
		if strings.TrimSpace(b.Name) == "" {
			return fmt.Errorf("config: script.bootstrap %d: name is required", i)
		}
	}
	return nil
}

// Options the factory options of this config
func (c Config) Options() ntjs.Options {
	return ntjs.Options{
		BaseURL:     c.Script.BaseURL,
		AssetPrefix: c.Script.AssetPrefix,
		Namespace:   c.Script.Namespace,
		Debug:       c.Script.Debug,
		UseCDN:      c.Script.UseCDN,
		Bootstrap:   c.Script.Bootstrap,
	}
}
