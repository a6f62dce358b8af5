package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"direct-chat/config"
	"direct-chat/pkg/database"
	"direct-chat/pkg/logger"
)

const usage = `
Direct Chat - Store CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Create the schema (postgres) or indexes (mongo) for STORE_DRIVER
  status      Show store connection status
  seed-dev    Seed with development/test users and messages

Flags:
  -users int         Number of test users to seed (default 5)
  -password string   Password for seeded users (default "Test@123!")

Examples:
  go run cmd/migrate/main.go up
  STORE_DRIVER=postgres go run cmd/migrate/main.go seed-dev -users 8
`

func main() {
	userCount := flag.Int("users", 5, "Number of test users to seed")
	password := flag.String("password", "Test@123!", "Password for seeded users")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	l := logger.New(logger.DevelopmentMode)
	defer l.Sync()

	ctx := context.Background()

	// Opening a store already applies its schema or indexes
	stores, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer stores.Close(ctx)

	switch command {
	case "up":
		fmt.Printf("Schema for %s store is up to date\n", stores.Driver)
	case "status":
		showStatus(ctx, stores)
	case "seed-dev":
		runSeedDevelopment(ctx, stores, *userCount, *password, l)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func showStatus(ctx context.Context, stores *database.Stores) {
	if err := stores.Ping(ctx); err != nil {
		fmt.Printf("Store %s: unreachable (%v)\n", stores.Driver, err)
		os.Exit(1)
	}
	fmt.Printf("Store %s: connected\n", stores.Driver)
}

func runSeedDevelopment(ctx context.Context, stores *database.Stores, userCount int, password string, l *logger.Logger) {
	result, err := database.Seed(ctx, stores.Users, stores.Messages, &database.SeedConfig{
		Password:     password,
		UserCount:    userCount,
		SeedMessages: true,
	}, l)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Printf("Seeded %d users and %d messages\n", len(result.Users), len(result.Messages))
	for _, u := range result.Users {
		fmt.Printf("  %s  %s\n", u.ID, u.Email)
	}
	if len(result.Users) > 0 {
		fmt.Printf("All seeded users share the password %q\n", password)
	}
}
