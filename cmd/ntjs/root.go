package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/syntax-framework/ntjs"
	"github.com/syntax-framework/ntjs/internal/config"
	"github.com/syntax-framework/ntjs/internal/host"
	"github.com/syntax-framework/ntjs/internal/server"
	"github.com/syntax-framework/ntjs/script"
)

// Version is set at build time via ldflags.
var Version = "dev"

// app state shared by the commands of a root command
type app struct {
	cfgFile string
	viper   *viper.Viper
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{viper: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "ntjs",
		Short:         "Script and asset bridge for shtml templates",
		Long:          `ntjs renders shtml templates, ordering and emitting the stylesheets, javascripts and scoped inline scripts they declare.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./"+config.DefaultFile+")")
	rootCmd.PersistentFlags().Bool("debug", false,
		"debug logging and readable inline scripts")
	rootCmd.PersistentFlags().String("templates", "",
		"directory of the .html templates")

	// Bind flags to viper
	_ = a.viper.BindPFlag("script.debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = a.viper.BindPFlag("templates", rootCmd.PersistentFlags().Lookup("templates"))

	rootCmd.AddCommand(newServeCmd(a), newRenderCmd(a), newResolveCmd(a))
	return rootCmd
}

func (a *app) initConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(a.viper, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := slog.LevelInfo
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Debug("configuration loaded", "file", a.viper.ConfigFileUsed(), "templates", cfg.Templates)
	return nil
}

// services the host services of the configuration
type services struct {
	catalog    *script.Catalog
	translator *host.Translator
	routes     *host.Routes
	provider   *ntjs.Provider
	server     *server.Server
}

func (a *app) loadCatalog() (*script.Catalog, error) {
	packages, cdn := a.cfg.Catalog.Packages, a.cfg.Catalog.CDN
	if packages != "" {
		if _, err := os.Stat(packages); os.IsNotExist(err) {
			slog.Warn("package catalog not found", "file", packages)
			packages = ""
		}
	}
	if cdn != "" {
		if _, err := os.Stat(cdn); os.IsNotExist(err) {
			cdn = ""
		}
	}
	catalog, err := script.LoadCatalog(packages, cdn)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return catalog, nil
}

func (a *app) services() (*services, error) {
	catalog, err := a.loadCatalog()
	if err != nil {
		return nil, err
	}
	translator, err := host.LoadTranslator(a.cfg.Translations)
	if err != nil {
		return nil, err
	}
	routes := host.NewRoutes(a.cfg.Routes)
	provider := ntjs.NewProvider(catalog, translator, routes, a.cfg.Options())

	return &services{
		catalog:    catalog,
		translator: translator,
		routes:     routes,
		provider:   provider,
		server: server.New(provider, server.Config{
			Templates: a.cfg.Templates,
			Static:    a.cfg.Static,
			CacheTTL:  a.cfg.CacheTTL,
		}),
	}, nil
}

// reload reads the catalogs again and drops the compiled templates
func (a *app) reload(s *services) {
	catalog, err := a.loadCatalog()
	if err != nil {
		slog.Error("catalog reload failed", "error", err)
	} else {
		s.catalog.Replace(catalog)
	}
	if err = s.translator.Load(a.cfg.Translations); err != nil {
		slog.Error("translations reload failed", "error", err)
	}
	s.server.Flush()
	slog.Info("reloaded", "packages", len(s.catalog.IDs()))
}
