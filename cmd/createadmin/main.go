// Command createadmin creates a confirmed administrator account.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dtroode/contactbook-server/internal/clock"
	"github.com/dtroode/contactbook-server/internal/config"
	"github.com/dtroode/contactbook-server/internal/logger"
	"github.com/dtroode/contactbook-server/internal/password"
	"github.com/dtroode/contactbook-server/internal/repository/postgres"
)

// readPassword is swapped in tests.
var readPassword = term.ReadPassword

func main() {
	username := flag.String("username", "", "admin username")
	email := flag.String("email", "", "admin email")
	flag.Parse()

	if *username == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	pass, err := promptPassword()
	if err != nil {
		logger.Fatal("failed to read password", "error", err)
	}

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	admin, err := createAdmin(ctx, postgres.NewUserRepository(db), password.NewBcrypt(cfg.Password.BcryptCost), clock.System(), adminParams{
		Username: *username,
		Email:    *email,
		Password: pass,
	})
	if err != nil {
		logger.Fatal("failed to create admin", "error", err)
	}

	fmt.Printf("admin %s (%s) created with id %s\n", admin.Username, admin.Email, admin.ID)
}

func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())

	fmt.Print("Password: ")
	first, err := readPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}

	fmt.Print("Repeat password: ")
	second, err := readPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
