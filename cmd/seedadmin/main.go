package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/rawaz/digital-menu/internal/config"
	"github.com/rawaz/digital-menu/internal/database"
	"github.com/rawaz/digital-menu/internal/model"
	"github.com/rawaz/digital-menu/internal/repository"
)

// seedadmin creates a back-office account. There is no registration
// endpoint; admins are provisioned out of band with this tool.
func main() {
	username := flag.String("username", "", "login username (matched case-sensitively)")
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "initial password")
	role := flag.String("role", model.RoleAdmin, "ADMIN or SUPER_ADMIN")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		log.Fatal("username, email and password are required")
	}
	if *role != model.RoleAdmin && *role != model.RoleSuperAdmin {
		log.Fatalf("unknown role %q", *role)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	accounts := repository.NewAccountRepo(db)
	id, err := accounts.Create(ctx, *username, *email, *password, *role, cfg.RestaurantID, cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			log.Fatal("an account with that username or email already exists")
		}
		log.Fatalf("create account: %v", err)
	}
	log.Printf("created %s account %s (id=%s)", *role, *username, id)
}
