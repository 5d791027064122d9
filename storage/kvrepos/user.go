package kvrepos

import (
	"context"
	"sync"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/storage/kv"
)

type userRepository struct {
	mu    sync.RWMutex
	store kv.Store
	users []user.User
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(store kv.Store, logger core.Logger) *userRepository {
	repo := &userRepository{store: store}
	var users []user.User
	if load(store, keyUsers, logger, &users) {
		repo.users = users
	}
	return repo
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, u := range repo.users {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}

	users := append(append([]user.User(nil), repo.users...), usr)
	if err := save(repo.store, keyUsers, users); err != nil {
		return user.User{}, err
	}
	repo.users = users
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, usr := range repo.users {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return append([]user.User(nil), repo.users...), nil
}

func (repo *userRepository) QueryUsersByClassCode(_ context.Context, code string) ([]user.User, error) {
	users := make([]user.User, 0)
	if code == "" {
		return users, nil
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()
	for _, usr := range repo.users {
		if usr.ClassCode == code {
			users = append(users, usr)
		}
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	users := append([]user.User(nil), repo.users...)
	for i := range users {
		if users[i].ID == usr.ID {
			users[i] = usr
			if err := save(repo.store, keyUsers, users); err != nil {
				return user.User{}, err
			}
			repo.users = users
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}
