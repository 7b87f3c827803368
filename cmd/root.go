package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robaho/memglass/internal/client"
	"github.com/robaho/memglass/internal/config"
	"github.com/robaho/memglass/internal/render"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "memglass",
	Short: "Observe memglass sessions over the web API",
	Long: `memglass is a read-only client for the memglass process-introspection
web API. It fetches point-in-time snapshots of a running producer's observed
objects and their field values, and can watch a session continuously.

The producer exposes its state at GET <url>/api/data; this tool never
mutates remote state.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/memglass/config.toml)")
	rootCmd.PersistentFlags().String("url", "", "memglass web server URL")
	rootCmd.PersistentFlags().Duration("timeout", 0, "per-request timeout")
	rootCmd.PersistentFlags().String("color", "", "color output: auto, always or never")

	viper.BindPFlag("server.url", rootCmd.PersistentFlags().Lookup("url"))
	viper.BindPFlag("server.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("output.color", rootCmd.PersistentFlags().Lookup("color"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "memglass")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server.url", client.DefaultURL)
	viper.SetDefault("server.timeout", client.DefaultTimeout)
	viper.SetDefault("watch.interval", 500*time.Millisecond)
	viper.SetDefault("wait.timeout", 30*time.Second)
	viper.SetDefault("wait.poll_interval", 500*time.Millisecond)
	viper.SetDefault("output.format", render.FormatText)
	viper.SetDefault("output.color", "auto")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newClient builds a client from the effective configuration.
func newClient() *client.Client {
	return client.New(config.ServerURL(), client.WithTimeout(config.Timeout()))
}

// newRenderer builds a stdout renderer with the configured color policy.
func newRenderer() *render.Renderer {
	render.SetupColor(config.ColorMode())
	return render.New(os.Stdout)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
