package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/xavierca1/plouf-crm/internal/config"
	"github.com/xavierca1/plouf-crm/internal/infra/logger"
)

var version = "dev"

var (
	flagPort    string
	flagBackend string
)

var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "Plouf CRM admin console",
	Long: `Server-rendered admin console for the Plouf CRM backend.

Without a subcommand the console web server is started.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the console web server",
	RunE:  runServe,
}

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Check that the CRM backend answers and accepts a login",
	Long: `Ping the CRM backend, then sign in with CRM_SMOKE_USERNAME and
CRM_SMOKE_PASSWORD and read the profile and home metrics.`,
	RunE: runSmoke,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPort, "port", "", "listen port (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "CRM backend URL (overrides CRM_API_URL)")
	rootCmd.AddCommand(serveCmd, smokeCmd)
}

// loadConfig applies flags on top of the environment.
func loadConfig() *config.Config {
	_ = godotenv.Load()

	cfg := config.Load()
	if flagPort != "" {
		cfg.Server.Port = flagPort
	}
	if flagBackend != "" {
		cfg.Backend.URL = flagBackend
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
