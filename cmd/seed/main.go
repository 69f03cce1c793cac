package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"leadboard/internal/config"
	"leadboard/internal/database"
	"leadboard/internal/domain"
	"leadboard/internal/logger"
	"leadboard/internal/modules/activity"
	"leadboard/internal/modules/auth"
	"leadboard/internal/modules/metrics"
	"leadboard/internal/modules/upload"
	"leadboard/internal/repository"
)

type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func main() {
	var dsn string
	e := &env{}

	root := &cobra.Command{
		Use:          "seed",
		Short:        "Bootstrap a leadboard database",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dsn != "" {
				cfg.DatabaseURL = dsn
			}
			e.cfg = cfg
			if e.log, err = logger.New(cfg.AppEnv); err != nil {
				return err
			}
			if e.db, err = database.Connect(cfg.DatabaseURL, e.log); err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			return repository.Migrate(e.db)
		},
	}
	root.PersistentFlags().StringVar(&dsn, "db", "", "database URL (defaults to DATABASE_URL)")

	root.AddCommand(userCmd(e), metricsCmd(e), importCmd(e))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func userCmd(e *env) *cobra.Command {
	var name, email, password, role string
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Create a user with the given role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := domain.UserRole(role)
			if !r.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
			if len(password) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			u := &domain.User{
				Name:         strings.TrimSpace(name),
				Email:        auth.NormalizeEmail(email),
				PasswordHash: hash,
				Role:         r,
				IsActive:     true,
			}
			if err := repository.NewUserRepository(e.db).Create(cmd.Context(), u); err != nil {
				if repository.IsUniqueViolation(err) {
					return fmt.Errorf("%s is already registered", u.Email)
				}
				return err
			}
			e.log.Info("user created", zap.Int64("id", u.ID), zap.String("email", u.Email), zap.String("role", role))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "Admin, Manager or Employee")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func metricsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Reset metric settings to the defaults",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := metrics.NewService(repository.NewMetricRepository(e.db), repository.NewLeadRepository(e.db), auditor(e), metrics.NewEngine(), e.log)
			configs, err := svc.Reset(cmd.Context(), 0)
			if err != nil {
				return err
			}
			e.log.Info("metric settings reset", zap.Int("metrics", len(configs)))
			return nil
		},
	}
}

func importCmd(e *env) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Load leads from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), e, args[0], replace)
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "delete every existing lead first")
	return cmd
}

func runImport(ctx context.Context, e *env, path string, replace bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	svc := upload.NewService(repository.NewLeadRepository(e.db), auditor(e), nil, e.log)
	res, err := svc.Import(ctx, 0, filepath.Base(path), f, replace)
	if err != nil {
		return err
	}
	e.log.Info(res.Message,
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int64("deleted", res.Deleted),
		zap.Int("errors", res.TotalErrors),
	)
	return nil
}

func auditor(e *env) *activity.Service {
	return activity.NewService(
		repository.NewActivityRepository(e.db),
		repository.NewFollowupRepository(e.db),
		repository.NewLeadRepository(e.db),
		e.log,
	)
}
