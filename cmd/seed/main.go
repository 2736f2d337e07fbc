package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"travelhub/internal/config"
	"travelhub/internal/database"
	"travelhub/internal/domain"
	"travelhub/internal/modules/catalog"
	"travelhub/internal/pkg/logger"
	"travelhub/internal/repository"
)

type demoPackage struct {
	title       string
	destination string
	price       string
	days        int
}

var demoPackages = []demoPackage{
	{"Silk Road Highlights", "Uzbekistan", "1450.00", 8},
	{"Charyn Canyon Weekend", "Kazakhstan", "320.00", 2},
	{"Issyk-Kul Summer Escape", "Kyrgyzstan", "690.50", 6},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	lg := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	db, err := database.Connect(cfg.DB.URL, cfg.DB.MaxOpenConns, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("database connect")
	}
	if err := database.Migrate(db); err != nil {
		lg.Fatal().Err(err).Msg("migrate")
	}

	ctx := context.Background()
	tx := repository.NewTxRunner(db)

	adminEmail := envOr("SEED_ADMIN_EMAIL", "admin@travelhub.local")
	adminPassword := envOr("SEED_ADMIN_PASSWORD", "admin12345")

	err = tx.Run(ctx, func(r repository.Repos) error {
		admin, err := createUser(ctx, r, adminEmail, adminPassword, "Platform Admin", domain.RoleSuperAdmin)
		if err != nil {
			return err
		}

		agentUser, err := createUser(ctx, r, "agent@travelhub.local", "agent12345", "Steppe Tours", domain.RoleAgent)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		agent := &domain.Agent{
			UserID:                   agentUser.ID,
			CompanyName:              "Steppe Tours LLP",
			BusinessType:             "dmc",
			TaxID:                    "KZ-100200300",
			LicenseNumber:            "TL-0420",
			Address:                  "Almaty, Abay ave 10",
			ContactName:              "Aigerim N.",
			ContactEmail:             agentUser.Email,
			ContactPhone:             "+77010000000",
			Status:                   domain.AgentApproved,
			Plan:                     domain.PlanStarter,
			ApprovedBy:               domain.Ref(admin.ID),
			ApprovedAt:               &now,
			TermsAcceptedAt:          now,
			DataProcessingAcceptedAt: now,
		}
		if err := r.Agents.Create(ctx, agent); err != nil {
			return err
		}

		for _, p := range demoPackages {
			pkg := &domain.TravelPackage{
				AgentID:       agent.ID,
				Title:         p.title,
				Slug:          catalog.Slugify(p.title),
				Description:   p.title + " with local guides.",
				Destination:   p.destination,
				Price:         decimal.RequireFromString(p.price),
				Currency:      "USD",
				DurationDays:  p.days,
				Status:        domain.PackageApproved,
				PublishStatus: domain.PublishPublished,
				ReviewedBy:    domain.Ref(admin.ID),
				ReviewedAt:    &now,
			}
			if err := r.Packages.Create(ctx, pkg); err != nil {
				return err
			}
		}

		_, err = createUser(ctx, r, "customer@travelhub.local", "customer123", "Demo Customer", domain.RoleCustomer)
		return err
	})
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		lg.Info().Msg("seed data already present, nothing to do")
	case err != nil:
		lg.Fatal().Err(err).Msg("seed")
	default:
		lg.Info().Str("admin", adminEmail).Int("packages", len(demoPackages)).Msg("seed completed")
	}
}

func createUser(ctx context.Context, r repository.Repos, email, password, name string, role domain.UserRole) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	identity := &domain.Identity{Email: email, PasswordHash: string(hash)}
	if err := r.Identities.Create(ctx, identity); err != nil {
		return nil, err
	}
	u := &domain.User{IdentityID: identity.ID, Email: identity.Email, Name: name, Role: role}
	if err := r.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
