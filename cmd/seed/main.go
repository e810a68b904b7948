// Package main provides a tool to provision user accounts.
//
// The server has no registration endpoint; accounts are created out of band:
//
//	go run ./cmd/seed -store-path ~/StoRe/store.db -username admin -password secret
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/storeapp/store-server/internal/auth"
	"github.com/storeapp/store-server/internal/domain"
	"github.com/storeapp/store-server/internal/logger"
	"github.com/storeapp/store-server/internal/store/sqlite"
)

func main() {
	storePath := flag.String("store-path", "", "Path to the SQLite database file (default: ~/StoRe/store.db)")
	username := flag.String("username", "", "Username of the account to create")
	password := flag.String("password", "", "Password of the account to create")
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	path := *storePath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		path = filepath.Join(home, "StoRe", "store.db")
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	lg := logger.New(logger.Config{Level: logger.ParseLevel("warn")})

	s, err := sqlite.Open(path, lg.Logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	id, err := s.Users().Insert(context.Background(), &domain.User{
		Username:     *username,
		PasswordHash: hash,
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Created user %q (id %d) in %s\n", *username, id, path)
}
