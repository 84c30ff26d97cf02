package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/config"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/database"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/repository"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/service"
)

// Provisions the fixed operator accounts. Safe to re-run: the users
// collection is reset before the accounts are inserted.
func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "provision").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to mongodb")
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancelDisconnect := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelDisconnect()
		_ = database.DisconnectMongo(disconnectCtx, db)
	}()

	provisioner := service.NewProvisionService(repository.NewUserRepository(db), logger)

	users, err := provisioner.Provision(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("provisioning failed")
		os.Exit(1)
	}

	for _, user := range users {
		logger.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("account provisioned")
	}

	logger.Info().Int("accounts", len(users)).Msg("provisioning complete")
}
