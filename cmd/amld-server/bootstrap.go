// ABOUTME: One-command first-time setup: creates the initial admin user
// ABOUTME: Connects to MongoDB directly rather than going through the HTTP API

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/amldecoded/amld-site/internal/auth"
	"github.com/amldecoded/amld-site/internal/config"
	"github.com/amldecoded/amld-site/internal/store"
)

// bootstrapArgs holds the parsed flag values for the bootstrap command.
type bootstrapArgs struct {
	username string
	email    string
	password string
}

// parseBootstrapArgs handles "--flag value" and "--flag=value" forms.
func parseBootstrapArgs(args []string) (*bootstrapArgs, error) {
	parsed := &bootstrapArgs{}
	fields := map[string]*string{
		"--username": &parsed.username,
		"--email":    &parsed.email,
		"--password": &parsed.password,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, value, ok := strings.Cut(arg, "="); ok {
			if dst, known := fields[name]; known {
				*dst = value
				continue
			}
			return nil, fmt.Errorf("unknown flag: %s", name)
		}

		if dst, known := fields[arg]; known {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			*dst = args[i+1]
			i++
			continue
		}
		return nil, fmt.Errorf("unexpected argument: %s", arg)
	}

	if parsed.username == "" || parsed.email == "" || parsed.password == "" {
		return nil, fmt.Errorf("--username, --email, and --password are all required")
	}
	return parsed, nil
}

func runBootstrap(ctx context.Context) error {
	args, err := parseBootstrapArgs(os.Args[2:])
	if err != nil {
		return err
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	cache := store.NewConnCache(cfg.Database)
	st := store.NewMongoStore(cache, cfg.Database.Name)
	defer st.Close(context.Background())

	hash, err := auth.HashPassword(args.password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user := &store.Credential{
		ID:           uuid.NewString(),
		Username:     args.username,
		Email:        strings.ToLower(args.email),
		PasswordHash: hash,
		Role:         store.RoleAdmin,
	}

	if err := st.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			return fmt.Errorf("bootstrap already complete: a user with that email or username exists")
		}
		return fmt.Errorf("creating admin user: %w", err)
	}

	green.Printf("  ✓ Created admin user: %s\n", user.Username)

	fmt.Println()
	green.Println("  Bootstrap complete!")
	fmt.Println()
	cyan.Println("  Admin User")
	cyan.Println("  ----------")
	fmt.Printf("  ID:       %s\n", user.ID)
	fmt.Printf("  Username: %s\n", user.Username)
	fmt.Printf("  Email:    %s\n", user.Email)
	fmt.Printf("  Role:     %s\n", user.Role)
	fmt.Println()

	fmt.Println("  Ready to go:")
	fmt.Println("    amld-server serve    # start the web server")
	fmt.Println("    amld-admin login     # get a bearer token")
	fmt.Println()

	return nil
}
