// internal/seed/seed.go
package seed

import (
	"context"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/laporkendala/lapor-backend/internal/repository"
	"github.com/laporkendala/lapor-backend/internal/types"
)

// SeedData creates the default statuses, the settings row and, when
// SEED_ADMIN_EMAIL is set, a development admin account.
func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	log.Println("[Seed] 🌱 Ensuring initial data...")

	seedStatuses(ctx, repos)
	seedSettings(ctx, repos)
	seedDevAdmin(ctx, repos)
}

func seedStatuses(ctx context.Context, repos *repository.Repositories) {
	existing, err := repos.StatusRepo.FindAll(ctx)
	if err != nil {
		log.Printf("[Seed] ⚠️ Failed to check statuses: %v", err)
		return
	}
	if len(existing) > 0 {
		return
	}

	for _, name := range types.DefaultStatuses {
		color := types.DefaultStatusColors[name]
		status := &repository.Status{Name: name}
		if color != "" {
			status.Color = &color
		}
		if err := repos.StatusRepo.Create(ctx, status); err != nil {
			log.Printf("[Seed] ⚠️ Failed to create status %s: %v", name, err)
		}
	}

	log.Printf("✅ Created %d default statuses", len(types.DefaultStatuses))
}

func seedSettings(ctx context.Context, repos *repository.Repositories) {
	if _, err := repos.SettingsRepo.EnsureDefault(ctx); err != nil {
		log.Printf("[Seed] ⚠️ Failed to ensure site settings: %v", err)
		return
	}
	log.Println("✅ Site settings row ensured")
}

func seedDevAdmin(ctx context.Context, repos *repository.Repositories) {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	existing, _ := repos.UserRepo.FindByEmail(ctx, email)
	if existing != nil {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[Seed] ⚠️ Failed to hash admin password: %v", err)
		return
	}

	now := time.Now()
	admin := &repository.User{
		Email:            email,
		Password:         string(hashed),
		EmailConfirmedAt: &now,
	}
	if err := repos.UserRepo.Create(ctx, admin); err != nil {
		log.Printf("[Seed] ⚠️ Failed to create admin user: %v", err)
		return
	}

	if err := repos.RoleRepo.Grant(ctx, admin.ID, types.RoleAdmin); err != nil {
		log.Printf("[Seed] ⚠️ Failed to grant admin role: %v", err)
		return
	}

	log.Printf("✅ Created seed admin: %s", email)
}
