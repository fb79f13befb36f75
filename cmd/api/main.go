// @title BlogHunt API
// @version 1.0
// @description Blogging backend: accounts, cookie sessions, blogs with likes and comments.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer <token>"
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/xyz-asif/bloghunt/internal/config"
	"github.com/xyz-asif/bloghunt/internal/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "bloghunt",
	Short: "BlogHunt API server",
	Long: `BlogHunt serves the blogging REST API.

Running without a subcommand is the same as 'bloghunt serve'.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(indexesCmd)
}

// loadConfig reads and checks the configuration and sets up logging
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.IsProduction())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
