package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"inspectnet/internal/config"
)

var cfgFile string

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "inspectnet",
	Short: "Inspection network settings editor",
	Long: `inspectnet stores the item types, components and collections of an
inspection network, reports problems with them, and serves an HTTP API for
editing them. Settings are saved on every change, valid or not.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging(viper.GetBool("log.verbose"))
	},
	SilenceUsage: true,
}

// overrides maps viper keys to the persistent flags that set them
var overrides = map[string]string{
	"database.driver": "driver",
	"database.path":   "db",
	"server.addr":     "addr",
	"watch.file":      "watch",
	"log.verbose":     "verbose",
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $INSPECTNET_CONFIG, ./inspectnet.yaml, ~/.config/inspectnet/config.yaml)")
	flags.String("driver", "", "settings storage driver: sqlite or file")
	flags.String("db", "", "settings database path")
	flags.String("addr", "", "HTTP listen address")
	flags.String("watch", "", "settings file to reload on change")
	flags.BoolP("verbose", "v", false, "include source locations in logs")

	for key, flag := range overrides {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("INSPECTNET")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads the config file, then applies flags and INSPECTNET_*
// environment variables on top
func loadConfig(v *viper.Viper) (*config.Config, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if cfgFile != "" {
		cfg, path, err = config.LoadFromPath(cfgFile)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if v.IsSet("database.driver") {
		cfg.Database.Driver = v.GetString("database.driver")
	}
	if v.IsSet("database.path") {
		cfg.Database.Path = v.GetString("database.path")
	}
	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("watch.file") {
		cfg.Watch.File = v.GetString("watch.file")
	}
	if v.IsSet("log.verbose") {
		cfg.Log.Verbose = v.GetBool("log.verbose")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setupLogging(cfg.Log.Verbose)
	if path != "" {
		log.Printf("Using config file %s", path)
	}
	return cfg, nil
}

func setupLogging(verbose bool) {
	flags := log.LstdFlags
	if verbose {
		flags |= log.Lshortfile
	}
	log.SetFlags(flags)
}

// resolveConfig loads the config against the global viper instance
func resolveConfig() (*config.Config, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
