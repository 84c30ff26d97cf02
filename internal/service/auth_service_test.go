package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/dto"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/repository"
)

type userRepoStub struct {
	users       []models.User
	deleted     bool
	insertedErr error
}

func (r *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, repository.ErrNoDocument
}

func (r *userRepoStub) DeleteAll(ctx context.Context) (int64, error) {
	removed := int64(len(r.users))
	r.users = nil
	r.deleted = true
	return removed, nil
}

func (r *userRepoStub) InsertMany(ctx context.Context, users []models.User) error {
	if r.insertedErr != nil {
		return r.insertedErr
	}
	r.users = append(r.users, users...)
	return nil
}

func (r *userRepoStub) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func seededUserRepo(t *testing.T, password string) *userRepoStub {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &userRepoStub{users: []models.User{{
		ID:       primitive.NewObjectID(),
		Name:     "Administrator",
		Email:    "admin@prym.aero",
		Password: string(hash),
		Role:     models.RoleAdmin,
	}}}
}

func newAuthService(repo *userRepoStub) AuthService {
	return NewAuthService(repo, "test-secret", validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestAuthServiceLoginValidation(t *testing.T) {
	svc := newAuthService(&userRepoStub{})

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "not-an-email", Password: "x"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(&userRepoStub{})

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ghost@prym.aero", Password: "whatever"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc := newAuthService(seededUserRepo(t, "admin#2024"))

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@prym.aero", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginIssuesToken(t *testing.T) {
	repo := seededUserRepo(t, "admin#2024")
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "Admin@prym.aero", Password: "admin#2024"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "admin", resp.Role)

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "admin", claims["role"])
	require.Equal(t, repo.users[0].ID.Hex(), claims["sub"])
}
