package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/repository"
)

// defaultAccounts is the fixed operator set created by provisioning. The
// credentials are initial passwords; operators are expected to rotate them.
var defaultAccounts = []struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}{
	{Name: "Administrator", Email: "admin@prym.aero", Password: "admin#2024", Role: models.RoleAdmin},
	{Name: "Stock Adder", Email: "adder@prym.aero", Password: "adder#2024", Role: models.RoleAdder},
	{Name: "Field Scanner", Email: "scanner@prym.aero", Password: "scanner#2024", Role: models.RoleScanner},
	{Name: "Inventory Manager", Email: "inventory@prym.aero", Password: "inventory#2024", Role: models.RoleInventory},
}

// ProvisionService resets the user collection to the fixed role-tagged
// account set. Intended for the one-shot provisioning command; rerunning it
// always converges on the same four accounts.
type ProvisionService interface {
	Provision(ctx context.Context) ([]models.User, error)
}

type provisionService struct {
	users  repository.UserRepository
	logger zerolog.Logger
}

// NewProvisionService constructs the provisioning service.
func NewProvisionService(users repository.UserRepository, logger zerolog.Logger) ProvisionService {
	return &provisionService{
		users:  users,
		logger: logger.With().Str("component", "provision_service").Logger(),
	}
}

func (s *provisionService) Provision(ctx context.Context) ([]models.User, error) {
	accounts := make([]models.User, 0, len(defaultAccounts))
	for _, account := range defaultAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.DefaultCost)
		if err != nil {
			// A hashing failure must never leave a half-seeded user set.
			return nil, fmt.Errorf("failed to hash credential for %s: %w", account.Email, err)
		}
		accounts = append(accounts, models.User{
			Name:     account.Name,
			Email:    account.Email,
			Password: string(hash),
			Role:     account.Role,
		})
	}

	removed, err := s.users.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("removed", removed).Msg("cleared existing user accounts")

	if err := s.users.InsertMany(ctx, accounts); err != nil {
		return nil, err
	}
	s.logger.Info().Int("created", len(accounts)).Msg("provisioned operator accounts")

	return accounts, nil
}
