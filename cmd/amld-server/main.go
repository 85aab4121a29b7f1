// ABOUTME: Entry point for the amld-server binary
// ABOUTME: Serves the public site and JSON API backed by MongoDB

package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/amldecoded/amld-site/internal/api"
	"github.com/amldecoded/amld-site/internal/auth"
	"github.com/amldecoded/amld-site/internal/config"
	"github.com/amldecoded/amld-site/internal/mailer"
	"github.com/amldecoded/amld-site/internal/site"
	"github.com/amldecoded/amld-site/internal/store"
	"github.com/amldecoded/amld-site/internal/upload"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                     _     _
  __ _ _ __ ___  ___| | __| |
 / _' | '_ ' _ \| / _' |/ _' |
| (_| | | | | | | | (_| | (_| |
 \__,_|_| |_| |_|_\__,_|\__,_|
`

// shutdownTimeout bounds graceful HTTP shutdown and store disconnect.
const shutdownTimeout = 15 * time.Second

// getConfigPath returns the path to the server config file.
// Priority: AMLD_CONFIG env var > XDG_CONFIG_HOME/amld/server.yaml > ~/.config/amld/server.yaml
func getConfigPath() string {
	if envPath := os.Getenv("AMLD_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "server.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "amld", "server.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: amld-server <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve      Start the web server")
		fmt.Println("  init       Create a new config file interactively")
		fmt.Println("  bootstrap  Create the initial admin user")
		fmt.Println("  health     Check server health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "bootstrap":
		err = runBootstrap(ctx)
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:     %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database: %s\n", store.RedactURI(cfg.Database.URI))
	fmt.Println()

	logger.Info("starting amld-server",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"database", store.RedactURI(cfg.Database.URI),
	)

	cache := store.NewConnCache(cfg.Database)
	st := store.NewMongoStore(cache, cfg.Database.Name)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	gate, err := auth.NewGate([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating auth gate: %w", err)
	}

	uploader, err := upload.NewCloudinary(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		return fmt.Errorf("creating uploader: %w", err)
	}

	mux := http.NewServeMux()
	api.NewServer(st, gate, uploader, mailer.NewSMTP(cfg.SMTP), cfg.Server.BaseURL).Register(mux)
	site.New(st, cfg.Server.BaseURL).Register(mux)

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s/api/health", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

// randomSecret generates a base64 JWT secret long enough for the auth gate.
func randomSecret() (string, error) {
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("generating JWT secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(secretBytes), nil
}
