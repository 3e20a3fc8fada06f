package memory

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository"
)

// DemoPassword is shared by every demo account. It is not a secret.
const DemoPassword = "Passw0rd!"

// DemoUsers is the fixed demo directory, one account per role.
var DemoUsers = []domain.User{
	{ID: "usr-admin", Name: "Amelia Hart", Email: "admin@royalcyber.com", Role: domain.RoleAdmin},
	{ID: "usr-operator", Name: "Omar Siddiqui", Email: "operator@royalcyber.com", Role: domain.RoleOperator},
	{ID: "usr-executive", Name: "Elena Park", Email: "executive@royalcyber.com", Role: domain.RoleExecutive},
	{ID: "usr-observer", Name: "Oliver Grant", Email: "observer@royalcyber.com", Role: domain.RoleObserver},
}

type credentialRepository struct {
	byEmail map[string]domain.Credential
	order   []domain.User
}

// NewCredentialRepository hashes password once and assigns it to every demo user.
// A cost <= 0 selects bcrypt.DefaultCost.
func NewCredentialRepository(password string, cost int) (repository.CredentialRepository, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}

	repo := &credentialRepository{
		byEmail: make(map[string]domain.Credential, len(DemoUsers)),
		order:   make([]domain.User, len(DemoUsers)),
	}
	copy(repo.order, DemoUsers)
	for _, user := range DemoUsers {
		repo.byEmail[user.Email] = domain.Credential{User: user, PasswordHash: hash}
	}
	return repo, nil
}

func (r *credentialRepository) Lookup(_ context.Context, email string) (*domain.Credential, error) {
	cred, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return &cred, nil
}

func (r *credentialRepository) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, len(r.order))
	copy(out, r.order)
	return out, nil
}
