package repository

import (
	"context"

	"github.com/dmitrymomot/filesmanager/pkg/auth"
)

type accountStore struct {
	repo Repository
}

// Accounts exposes repo as an auth.AccountStore.
func Accounts(repo Repository) auth.AccountStore {
	if repo == nil {
		panic(ErrRepositoryNil)
	}
	return accountStore{repo: repo}
}

func (s accountStore) FindAccountByEmail(ctx context.Context, email string) (auth.Account, bool, error) {
	u, found, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil || !found {
		return auth.Account{}, false, err
	}
	return auth.Account{ID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash}, true, nil
}
