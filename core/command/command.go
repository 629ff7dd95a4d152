// Package command holds the process entry points and operator tooling.
package command

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediation-api/core/config"
	"mediation-api/core/constants"
	"mediation-api/core/cache"
	"mediation-api/core/database"
	"mediation-api/core/identity"
	"mediation-api/core/logger"
	"mediation-api/core/server"
	"mediation-api/core/utils"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Execute runs the root command with the process arguments.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

func NewRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "mediation-api",
		Short:         "Case membership service for mediation cases",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file (yaml, json or toml)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		logger.Init(cfg.Log.Level, cfg.Log.Format)
		return cfg, nil
	}

	root.AddCommand(
		newServeCommand(load),
		newWorkerCommand(load),
		newMigrateCommand(load),
		newBootstrapCommand(load),
		newTokenCommand(load),
		newRevokeCommand(load),
	)
	return root
}

type loader func() (*config.Config, error)

func newServeCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return server.Run(cmd.Context(), cfg)
		},
	}
}

func newWorkerCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Record participant change events into the activity log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return server.RunWorker(cmd.Context(), cfg)
		},
	}
}

func newMigrateCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Database.Driver == "memory" {
				return fmt.Errorf("nothing to migrate for the memory driver")
			}

			db, err := database.InitDB(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.DefaultRequestTimeout)
			defer cancel()
			return database.Migrate(ctx, &db)
		},
	}
}

func newBootstrapCommand(load loader) *cobra.Command {
	var caseID, userID string

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Make a user the first active mediator of a case",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cid, err := uuid.Parse(caseID)
			if err != nil {
				return fmt.Errorf("--case: %w", err)
			}
			uid, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("--user: %w", err)
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			app, err := server.NewApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			p, err := app.ParticipantService().Bootstrap(cmd.Context(), cid, uid)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "case %s: %s is now an active %s\n", p.CaseID, p.UserID, p.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&caseID, "case", "", "case id")
	cmd.Flags().StringVar(&userID, "user", "", "user id of the first mediator")
	_ = cmd.MarkFlagRequired("case")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// newTokenCommand signs a bearer token with the configured secret, for local
// use against the API.
func newTokenCommand(load loader) *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uid, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("--user: %w", err)
			}
			cfg, err := load()
			if err != nil {
				return err
			}

			token, err := utils.GenerateToken(cfg.JWT.Secret, cfg.JWT.Issuer, uid, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id to put in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newRevokeCommand(load loader) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke a bearer token until it expires",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			c, err := cache.NewRedisCache(cfg.Redis)
			if err != nil {
				return err
			}
			defer c.Close()

			return identity.NewJWTResolver(cfg.JWT.Secret, c).Revoke(cmd.Context(), token)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "token to revoke")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}
