package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"beachvolley/internal/service"
	"beachvolley/internal/utils"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "beachvolley",
		Usage: "Beach volley court booking backend.",
		Commands: []*cli.Command{
			serveCommand(),
			reconcileCommand(),
			hashPasswordCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "beachvolley: %v\n", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API and the reconciliation job.",
		Action: func(c *cli.Context) error {
			a, err := newApp(c.Context)
			if err != nil {
				return err
			}
			defer a.close()
			logger := a.logger

			if a.job != nil {
				if err := a.job.Start(a.cfg.ReconcileSchedule); err != nil {
					return err
				}
			}

			srv := &http.Server{
				Addr:              ":" + a.cfg.Port,
				Handler:           a.router(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				logger.Info("Server running", zap.String("port", a.cfg.Port), zap.String("basePath", a.cfg.BasePath))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("Failed to start server", zap.Error(err))
				}
			}()

			// Wait for an OS signal to gracefully shutdown.
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			logger.Info("Server is shutting down...")

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if a.job != nil {
				select {
				case <-a.job.Stop().Done():
				case <-ctx.Done():
				}
			}
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			a.sender.Wait()
			logger.Info("Server exited")
			return nil
		},
	}
}

func reconcileCommand() *cli.Command {
	return &cli.Command{
		Name:  "reconcile",
		Usage: "Remove local reservations whose calendar event was deleted, then exit.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "Day to reconcile (YYYY-MM-DD). Defaults to every upcoming day in RECONCILE_DAYS."},
		},
		Action: func(c *cli.Context) error {
			a, err := newApp(c.Context)
			if err != nil {
				return err
			}
			defer a.close()

			if a.job == nil {
				return service.ErrCalendarDisabled
			}

			if date := c.String("date"); date != "" {
				if !utils.ValidDate(date) {
					return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
				}
				result, err := a.availability.Reconcile(c.Context, date)
				if err != nil {
					return fmt.Errorf("reconciliation of %s failed: %w", date, err)
				}
				a.logger.Info("Reconciliation completed", zap.String("date", date),
					zap.Int("orphans", len(result.Orphans)), zap.Int("deleted", result.Deleted))
				return nil
			}

			deleted, err := a.job.ReconcileUpcoming(c.Context)
			if err != nil {
				return err
			}
			a.logger.Info("Reconciliation completed", zap.Int("deleted", deleted))
			return nil
		},
	}
}

func hashPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "Print the bcrypt hash of a password for ADMIN_PASSWORD_HASH.",
		ArgsUsage: "<password>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one password argument")
			}
			hash, err := service.HashPassword(c.Args().First())
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}
}
