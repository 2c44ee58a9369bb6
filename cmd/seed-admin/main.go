package main

import (
	"context"
	"flag"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"anistream/internal/auth"
	"anistream/pkg/database"
)

// Creates or promotes an administrator account. Admin rights are only
// ever granted here, never through the public registration endpoint.
func main() {
	var (
		dbPath   = flag.String("db", "data/anistream.db", "sqlite database path")
		username = flag.String("username", "", "admin username")
		password = flag.String("password", "", "admin password (required when creating)")
	)
	flag.Parse()

	if *username == "" {
		log.Fatal("-username is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.Config{Path: *dbPath})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	repo := auth.NewRepo(db)

	existing, err := repo.GetByUsername(ctx, *username)
	if err != nil {
		log.Fatalf("lookup user: %v", err)
	}

	if existing != nil {
		if existing.IsAdmin {
			log.Printf("user %q is already an admin", existing.Username)
			return
		}
		if err := repo.Promote(ctx, existing.ID); err != nil {
			log.Fatalf("promote user: %v", err)
		}
		log.Printf("promoted %q to admin", existing.Username)
		return
	}

	if *password == "" {
		log.Fatal("-password is required when creating a new admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	u, err := repo.Create(ctx, *username, string(hash), true)
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("created admin %q (id %d)", u.Username, u.ID)
}
