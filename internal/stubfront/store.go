package stubfront

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is a registered account in the stub backend.
type User struct {
	ID           string
	Username     string
	Email        string
	Role         string
	PasswordHash []byte
}

// UserStore keeps accounts in memory; the stub backend has no system
// of record beyond the lifetime of the process.
type UserStore struct {
	mu     sync.Mutex
	byName map[string]*User
}

func NewUserStore() *UserStore {
	return &UserStore{byName: make(map[string]*User)}
}

// Create registers a new account with a bcrypt-hashed password.
func (s *UserStore) Create(username, email, password, role string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byName[username]; exists {
		return nil, ErrUserExists
	}
	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	}
	s.byName[username] = user
	return user, nil
}

// Authenticate verifies a username/password pair.
func (s *UserStore) Authenticate(username, password string) (*User, error) {
	s.mu.Lock()
	user, ok := s.byName[username]
	s.mu.Unlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
