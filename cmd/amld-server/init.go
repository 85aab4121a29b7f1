// ABOUTME: Interactive config file creation for amld-server
// ABOUTME: Prompts for every required setting and writes the YAML config

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("amld-server configuration setup")
	fmt.Println("===============================")
	fmt.Println()

	outputFile := prompt(reader, "Config file path", getConfigPath())

	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, "File exists. Overwrite?", "no")
		if strings.ToLower(overwrite) != "yes" && strings.ToLower(overwrite) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println("\n--- Server Configuration ---")
	httpAddr := prompt(reader, "HTTP address", "localhost:8080")
	baseURL := prompt(reader, "Public base URL", "https://amldecoded.com")

	fmt.Println("\n--- Database Configuration ---")
	mongoURI := prompt(reader, "MongoDB URI", "mongodb://localhost:27017")
	dbName := prompt(reader, "Database name", "amld")

	fmt.Println("\n--- Auth Configuration ---")
	jwtSecret := prompt(reader, "JWT secret (leave empty to generate)", "")
	if jwtSecret == "" {
		var err error
		jwtSecret, err = randomSecret()
		if err != nil {
			return err
		}
		fmt.Println("  Generated a random JWT secret.")
	}

	fmt.Println("\n--- Cloudinary Configuration ---")
	cloudName := prompt(reader, "Cloud name", "")
	cloudKey := prompt(reader, "API key", "")
	cloudSecret := prompt(reader, "API secret", "")

	fmt.Println("\n--- SMTP Configuration ---")
	smtpHost := prompt(reader, "SMTP host", "smtp.gmail.com")
	smtpPort := prompt(reader, "SMTP port", "587")
	smtpUser := prompt(reader, "SMTP username", "")
	smtpPass := prompt(reader, "SMTP password", "")
	smtpFrom := prompt(reader, "From address", smtpUser)
	smtpTo := prompt(reader, "Contact form recipient", smtpUser)

	fmt.Println("\n--- Logging Configuration ---")
	logLevel := prompt(reader, "Log level (debug/info/warn/error)", "info")
	logFormat := prompt(reader, "Log format (text/json)", "text")

	var cfg strings.Builder
	cfg.WriteString("# amld-server configuration\n")
	cfg.WriteString("# Generated by amld-server init\n\n")

	cfg.WriteString("server:\n")
	cfg.WriteString(fmt.Sprintf("  http_addr: %q\n", httpAddr))
	cfg.WriteString(fmt.Sprintf("  base_url: %q\n", baseURL))
	cfg.WriteString("\n")

	cfg.WriteString("database:\n")
	cfg.WriteString(fmt.Sprintf("  uri: %q\n", mongoURI))
	cfg.WriteString(fmt.Sprintf("  name: %q\n", dbName))
	cfg.WriteString("\n")

	cfg.WriteString("auth:\n")
	cfg.WriteString(fmt.Sprintf("  jwt_secret: %q\n", jwtSecret))
	cfg.WriteString("\n")

	cfg.WriteString("cloudinary:\n")
	cfg.WriteString(fmt.Sprintf("  cloud_name: %q\n", cloudName))
	cfg.WriteString(fmt.Sprintf("  api_key: %q\n", cloudKey))
	cfg.WriteString(fmt.Sprintf("  api_secret: %q\n", cloudSecret))
	cfg.WriteString("\n")

	cfg.WriteString("smtp:\n")
	cfg.WriteString(fmt.Sprintf("  host: %q\n", smtpHost))
	cfg.WriteString(fmt.Sprintf("  port: %s\n", smtpPort))
	cfg.WriteString(fmt.Sprintf("  username: %q\n", smtpUser))
	cfg.WriteString(fmt.Sprintf("  password: %q\n", smtpPass))
	cfg.WriteString(fmt.Sprintf("  from: %q\n", smtpFrom))
	cfg.WriteString(fmt.Sprintf("  to: %q\n", smtpTo))
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: %q\n", logLevel))
	cfg.WriteString(fmt.Sprintf("  format: %q\n", logFormat))

	configDir := filepath.Dir(outputFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)
	fmt.Println("\nNext steps:")
	fmt.Println("  amld-server bootstrap --username you --email you@example.com --password ...")
	fmt.Println("  amld-server serve")

	return nil
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		// On EOF or error, return default
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
