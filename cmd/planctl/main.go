package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"taskplanner/internal/auth"
	"taskplanner/internal/config"
	"taskplanner/internal/database"
	"taskplanner/internal/logging"
	"taskplanner/internal/planner"
	"taskplanner/internal/repository"
	"taskplanner/internal/seed"
)

var (
	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "Operate the task planner database",
	Long: `planctl manages the task planner outside the HTTP API.
It reads the same environment (.env, DB_DRIVER, DB_*, SQLITE_PATH, JWT_SECRET)
as the server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger = logging.New(cfg.LogLevel, "planctl")
		log.SetDefault(logger)
	},
}

func main() {
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(tasksCmd())
	rootCmd.AddCommand(tokenCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func withDB(fn func(db *gorm.DB) error) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(db)
}

func withPlanner(ctx context.Context, fn func(ctx context.Context, svc *planner.Service) error) error {
	return withDB(func(db *gorm.DB) error {
		if cfg.AutoMigrate {
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		svc := planner.New(repository.NewUnitOfWork(db, cfg.TxRetries, logger), planner.Options{
			PlanStart: cfg.PlanStartDate,
			Logger:    logger,
		})
		return fn(ctx, svc)
	})
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *gorm.DB) error {
				if err := database.Migrate(db); err != nil {
					return err
				}
				logger.Info("schema up to date", "driver", cfg.DBDriver)
				return nil
			})
		},
	}
}

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the plan with a YAML or JSON seed document",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := seed.Load(file)
			if err != nil {
				return err
			}
			return withPlanner(cmd.Context(), func(ctx context.Context, svc *planner.Service) error {
				n, err := svc.ImportSeed(ctx, plan)
				if err != nil {
					return err
				}
				fmt.Printf("imported %d tasks\n", n)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed document (.yaml or .json)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func tasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlanner(cmd.Context(), func(ctx context.Context, svc *planner.Service) error {
				tasks, err := svc.ListTasks(ctx)
				if err != nil {
					return err
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Week", "Title", "Status", "Priority", "Progress"})
				for _, t := range tasks {
					tw.AppendRow(table.Row{t.ID, t.Week, t.Title, t.Status, t.Priority, fmt.Sprintf("%.0f%%", t.Progress)})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func tokenCmd() *cobra.Command {
	var subject string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token for the write routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			if ttl <= 0 {
				ttl = time.Duration(cfg.JWTExpiryHours) * time.Hour
			}
			token, err := auth.GenerateToken(cfg.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default JWT_EXPIRY_HOURS)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
