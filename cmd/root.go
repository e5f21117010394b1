// Package cmd provides the productdesc command-line interface.
//
// Configuration is read from, highest priority first: command-line flags,
// PRODUCTDESC_* environment variables (e.g. PRODUCTDESC_STORAGE_DRIVER),
// the file named by --config or PRODUCTDESC_CONFIG_FILE, and finally
// .productdesc.yml in the current directory.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"productdesc/internal/app"
	"productdesc/internal/config"
	"productdesc/internal/log"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "productdesc",
	Short: "Compose product descriptions from typed content blocks",
	Long: `productdesc builds product descriptions out of typed content blocks
(hero, features, specifications, gallery, FAQ, ...), renders them to HTML
and reports on their heading structure and keywords.

Quick Start:
  productdesc templates list              List available templates
  productdesc new --name "Desk Lamp" -t tech-gadget
  productdesc serve --document <id>       Live preview in the browser
  productdesc mcp                         Let an AI agent edit documents over MCP`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return log.Set(cfg.Log.Level, cfg.Log.Format)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Flush()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .productdesc.yml, can also use PRODUCTDESC_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv(config.EnvPrefix + "_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".productdesc")
	}

	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	// a missing file falls back to defaults
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// commandContext returns the context of cmd, or Background when cmd was
// not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// withApp opens the configured storage, runs fn and closes the app.
func withApp(ctx context.Context, fn func(*app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, log.Get())
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(ctx); err != nil {
			log.Get().Warn("close storage", zap.Error(err))
		}
	}()
	return fn(a)
}
