package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"github.com/vrulab/vru-validation/pkg/audit"
	"github.com/vrulab/vru-validation/pkg/config"
	"github.com/vrulab/vru-validation/pkg/db"
	"github.com/vrulab/vru-validation/pkg/server"
	"github.com/vrulab/vru-validation/pkg/server/endpoints"
)

const shutdownTimeout = 15 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the VRU validation server",
	Long: `Run the VRU validation server.

The server requires the environment variable DATABASE_URL. A postgres://
URL uses the SQL migrations; a sqlite:<path> URL creates the schema from
the models.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		if db.URL() == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate && !db.IsSQLite(db.URL()) {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		database, err := db.Connect(db.Config{AutoMigrate: !noMigrate})
		if err != nil {
			fmt.Println("Unable to connect to DB:", err)
			os.Exit(1)
		}

		if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
			if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, Release: version}); err != nil {
				log.Printf("Sentry disabled: %v", err)
			} else {
				defer sentry.Flush(2 * time.Second)
			}
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s, err := server.NewServer(cfg, server.NewGormStores(database), host, port)
		if err != nil {
			fmt.Println("Unable to create server:", err)
			os.Exit(1)
		}
		endpoints.RegisterAll(s)

		audit.SetStore(audit.NewStore(database))
		if err := s.ConnectMQTT(); err != nil {
			log.Printf("MQTT publishing disabled: %v", err)
		}

		if err := run(s, host, port); err != nil {
			log.Fatal(err)
		}
	},
}

// run serves until SIGINT or SIGTERM, then drains requests and stops the
// detection workers
func run(s *server.Server, host, port string) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Running server at http://%s:%s...\n", host, port)
		errCh <- s.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-sigCh:
		log.Printf("Received %s, shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
