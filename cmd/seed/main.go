package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/feedwire/feedwire/config"
	"github.com/feedwire/feedwire/internal/domain/entity"
	"github.com/feedwire/feedwire/internal/infrastructure/mongodb"
	"github.com/feedwire/feedwire/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	client, db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := mongodb.NewUserRepository(db)
	posts := mongodb.NewPostRepository(db)

	email := "demo@feedwire.dev"
	password := "password123"

	if existing, err := users.GetByEmail(ctx, email); err == nil {
		fmt.Printf("seed user already present: id=%s email=%s\n", existing.ID.Hex(), email)
		return
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u := &entity.User{
		Email:    email,
		Password: hash,
		Name:     "Demo User",
		Status:   entity.DefaultStatus,
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	for i := 1; i <= 3; i++ {
		p := &entity.Post{
			Title:     fmt.Sprintf("Hello feedwire %d", i),
			Content:   fmt.Sprintf("Seeded post number %d.", i),
			ImageURL:  "/uploads/images/seed.png",
			CreatorID: u.ID,
		}
		if err := posts.Create(ctx, p); err != nil {
			log.Fatalf("failed to seed post: %v", err)
		}
		if err := users.AddPost(ctx, u.ID.Hex(), p.ID.Hex()); err != nil {
			log.Fatalf("failed to link post: %v", err)
		}
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s with 3 posts\n", u.ID.Hex(), email, password)
}
