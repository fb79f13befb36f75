package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/xyz-asif/bloghunt/internal/database"
	"github.com/xyz-asif/bloghunt/internal/pkg/logger"
	"github.com/xyz-asif/bloghunt/internal/routes"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create MongoDB indexes and exit",
	Long: `Create the unique email index on users and the listing indexes on blogs.

Safe to run repeatedly; existing indexes are left alone.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		defer db.Disconnect(context.Background())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := routes.EnsureIndexes(ctx, db.Database); err != nil {
			return err
		}
		logger.Info("Indexes are in place on %s", cfg.MongoDB)
		return nil
	},
}
