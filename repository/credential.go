package repository

import (
	"context"

	"github.com/fastygo/aiops/domain"
)

type CredentialRepository interface {
	// Lookup returns the credential for an exact email match.
	Lookup(ctx context.Context, email string) (*domain.Credential, error)
	List(ctx context.Context) ([]domain.User, error)
}
