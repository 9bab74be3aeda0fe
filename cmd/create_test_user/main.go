package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"taskboard/internal/db"
	"taskboard/internal/domain"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "tester@example.com", "user email")
	name := flag.String("name", "Tester", "user name")
	password := flag.String("password", "tester123", "user password")
	flag.Parse()

	_ = godotenv.Load()

	// expects DATABASE_URL and JWT_SECRET env vars
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn, 2)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	repo := repository.NewUserRepository(pool)

	// try to find existing user
	u, err := repo.GetUserByEmail(ctx, *email)
	switch {
	case err == nil:
		log.Printf("user already exists id=%d\n", u.ID)
	case errors.Is(err, domain.ErrNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		u = &domain.User{Name: *name, Email: *email, PasswordHash: string(hash)}
		if err := repo.CreateUser(ctx, u); err != nil {
			log.Fatalf("create user failed: %v", err)
		}
		log.Printf("user created id=%d\n", u.ID)
	default:
		log.Fatalf("get by email failed: %v", err)
	}

	log.Printf("fetched user id=%d name=%s email=%s created_at=%v\n", u.ID, u.Name, u.Email, u.CreatedAt)

	tokens, err := service.NewTokenManager(secret, 24*time.Hour)
	if err != nil {
		log.Fatalf("jwt setup: %v", err)
	}
	token, err := tokens.Generate(u.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
