package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"character-guessr/internal/config"
	"character-guessr/internal/db"
	"character-guessr/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

const releaseVersion = "0.1.0"

// Free hosting tiers idle out servers that go quiet; pinging our own
// /ping endpoint just inside the usual 15 minute window keeps the
// process warm.
const keepaliveInterval = 14*time.Minute + 30*time.Second

type flags struct {
	bind         string
	port         int
	keepaliveURL string
	noDatabase   bool
}

func main() {
	cobra.CheckErr(newCmd().Execute())
}

func newCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("GUESSR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	opts := &flags{}
	cmd := &cobra.Command{
		Use:           "character-guessr",
		Short:         "Anime character guessing game server.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringVarP(&opts.bind, "bind", "b", "0.0.0.0", "address to bind to (env: GUESSR_BIND)")
	fs.IntVarP(&opts.port, "port", "p", 8080, "port to listen on (env: GUESSR_PORT)")
	fs.StringVar(&opts.keepaliveURL, "keepalive-url", "", "public URL to self-ping so free hosts don't idle the server (env: GUESSR_KEEPALIVE_URL)")
	fs.BoolVar(&opts.noDatabase, "no-database", false, "run without postgres; tag votes and the persistent cache are disabled (env: GUESSR_NO_DATABASE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}

func run(ctx context.Context, opts *flags) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	var conn *gorm.DB
	if !opts.noDatabase && os.Getenv("DATABASE_URL") != "" {
		var err error
		conn, err = db.Open()
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		if err := db.Configure(conn, cfg); err != nil {
			return fmt.Errorf("configure database pool: %w", err)
		}
		if err := db.Migrate(conn); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	} else {
		log.Printf("running without a database, tag votes disabled")
	}

	srv := server.New(conn, cfg)
	addr := fmt.Sprintf("%s:%d", opts.bind, opts.port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.keepaliveURL != "" {
		go keepalive(ctx, strings.TrimSuffix(opts.keepaliveURL, "/")+"/ping")
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("character-guessr server listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Printf("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func keepalive(ctx context.Context, url string) {
	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()
	client := &http.Client{Timeout: 30 * time.Second}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			resp, err := client.Get(url)
			if err != nil {
				log.Printf("keepalive ping failed error=%v", err)
				continue
			}
			resp.Body.Close()
		}
	}
}
