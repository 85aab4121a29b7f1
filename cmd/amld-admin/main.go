// ABOUTME: Admin CLI for the amld site: health checks, admin creation, login
// ABOUTME: Talks to the server's JSON API over HTTP with bearer tokens

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
)

const banner = `
                     _     _             _           _
  __ _ _ __ ___  ___| | __| |           | | _ __ ___ (_)_ __
 / _' | '_ ' _ \| / _' |/ _' |  _____  / _' | '_ ' _ \| | '_ \
| (_| | | | | | | | (_| | (_| | |_____| (_| | | | | | | | | | |
 \__,_|_| |_| |_|_\__,_|\__,_|          \__,_|_| |_| |_|_|_| |_|
`

// requestTimeout bounds every API call the CLI makes.
const requestTimeout = 30 * time.Second

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	baseURL := os.Getenv("AMLD_SERVER_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "health":
		err = cmdHealth(baseURL)
	case "create-admin":
		err = cmdCreateAdmin(baseURL, args)
	case "login":
		err = cmdLogin(baseURL, args)
	case "me":
		err = cmdMe(baseURL)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: amld-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  health                                 Check server health")
	fmt.Println("  create-admin <username> <email> <pw>   Create an admin user")
	fmt.Println("  login <email> <password>               Log in and save a bearer token")
	fmt.Println("  me                                     Show who the saved token belongs to")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  AMLD_SERVER_URL   Server base URL (default http://localhost:8080)")
	fmt.Println()
}

// tokenPath returns where the login token is stored.
func tokenPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".amld-token"
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "amld", "token")
}

func savedToken() string {
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// apiCall performs one JSON API request and decodes the response body.
// Non-2xx responses are returned as errors carrying the server's message.
func apiCall(method, url, token string, reqBody any) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var reader io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if msg, ok := body["error"].(string); ok {
			return nil, fmt.Errorf("%s (status %d)", msg, resp.StatusCode)
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

func cmdHealth(baseURL string) error {
	body, err := apiCall(http.MethodGet, baseURL+"/api/health", "", nil)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ %s is %v\n", baseURL, body["status"])
	return nil
}

func cmdCreateAdmin(baseURL string, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: amld-admin create-admin <username> <email> <password>")
	}

	body, err := apiCall(http.MethodPost, baseURL+"/api/auth/create-admin", "", map[string]string{
		"username": args[0],
		"email":    args[1],
		"password": args[2],
	})
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ %v\n", body["message"])
	if user, ok := body["user"].(map[string]any); ok {
		fmt.Printf("  ID:       %v\n", user["id"])
		fmt.Printf("  Username: %v\n", user["username"])
		fmt.Printf("  Email:    %v\n", user["email"])
	}
	return nil
}

func cmdLogin(baseURL string, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: amld-admin login <email> <password>")
	}

	body, err := apiCall(http.MethodPost, baseURL+"/api/auth/login", "", map[string]string{
		"email":    args[0],
		"password": args[1],
	})
	if err != nil {
		return err
	}

	token, ok := body["token"].(string)
	if !ok || token == "" {
		return fmt.Errorf("login response missing token")
	}

	path := tokenPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token), 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Logged in, token saved to %s\n", path)
	return nil
}

func cmdMe(baseURL string) error {
	token := savedToken()
	if token == "" {
		return fmt.Errorf("no saved token; run: amld-admin login <email> <password>")
	}

	body, err := apiCall(http.MethodGet, baseURL+"/api/auth/me", token, nil)
	if err != nil {
		return err
	}

	user, ok := body["user"].(map[string]any)
	if !ok {
		return fmt.Errorf("unexpected response shape")
	}

	cyan := color.New(color.FgCyan)
	cyan.Println("  Identity")
	cyan.Println("  --------")
	fmt.Printf("  ID:       %v\n", user["id"])
	fmt.Printf("  Username: %v\n", user["username"])
	fmt.Printf("  Email:    %v\n", user["email"])
	fmt.Printf("  Role:     %v\n", user["role"])
	return nil
}
