package service

import (
	"strings"

	"github.com/studiopipe/gateway/internal/model"
	"github.com/studiopipe/gateway/internal/store"
)

// UserService owns the user directory store.
type UserService struct {
	store *store.Store[model.User]
}

func NewUserService() *UserService {
	return &UserService{store: store.New[model.User]()}
}

// Seed loads the demo user set.
func (s *UserService) Seed() {
	for _, u := range []model.User{
		{Username: "lynloveyounever", Email: "lynloveyounever@example.com", FullName: "Lyn Loveyounever"},
		{Username: "testuser", Email: "test@example.com", FullName: "Test User"},
	} {
		s.create(u)
	}
}

func (s *UserService) create(u model.User) model.User {
	return s.store.Create(func(id int) model.User {
		u.ID = id
		return u
	})
}

func (s *UserService) Create(req *model.CreateUserRequest) model.User {
	return s.create(model.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
	})
}

func (s *UserService) List() []model.User {
	return s.store.List()
}

func (s *UserService) Get(id int) (model.User, error) {
	return s.store.Get(id)
}

// GetByUsername looks a user up by name, case-insensitively.
func (s *UserService) GetByUsername(username string) (model.User, bool) {
	for _, u := range s.store.List() {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return model.User{}, false
}

func (s *UserService) Update(id int, req *model.UpdateUserRequest) (model.User, error) {
	return s.store.Update(id, func(u model.User) model.User {
		if req.Username != nil {
			u.Username = *req.Username
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.FullName != nil {
			u.FullName = *req.FullName
		}
		return u
	})
}

func (s *UserService) Delete(id int) (model.User, error) {
	return s.store.Delete(id)
}

// First returns the first user in insertion order, used to resolve the
// current principal when authentication is disabled.
func (s *UserService) First() (model.User, bool) {
	users := s.store.List()
	if len(users) == 0 {
		return model.User{}, false
	}
	return users[0], true
}
