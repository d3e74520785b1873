// Package identity provides sign-up, sign-in, and current-user lookup for
// the board CLI.
//
// Users live in the workspace's users.yaml with bcrypt password hashes; the
// signed-in identity is a session file holding the email. The core only
// ever needs the authenticated email; there is no token or permission
// model here.
package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// UsersFileName holds the registered users inside the workspace dir.
const UsersFileName = "users.yaml"

// SessionFileName holds the signed-in email inside the workspace dir.
const SessionFileName = "session"

// ErrUnauthenticated is returned by Current when nobody is signed in.
var ErrUnauthenticated = errors.New("not signed in")

// ErrUserExists is returned by SignUp for an already-registered email.
var ErrUserExists = errors.New("user already exists")

// ErrBadCredentials is returned by SignIn on a wrong email or password.
// The two cases are deliberately indistinguishable.
var ErrBadCredentials = errors.New("invalid email or password")

// User is the authenticated identity visible to the core.
type User struct {
	Email string
}

// Provider yields the current authenticated user, or ErrUnauthenticated.
type Provider interface {
	Current(ctx context.Context) (*User, error)
}

// Service implements Provider over the workspace directory.
type Service struct {
	dir string
}

// NewService returns an identity service rooted at the workspace directory.
func NewService(dir string) *Service {
	return &Service{dir: dir}
}

type userRecord struct {
	Email        string    `yaml:"email"`
	PasswordHash string    `yaml:"password_hash"`
	CreatedAt    time.Time `yaml:"created_at"`
}

type usersFile struct {
	Users []userRecord `yaml:"users"`
}

// SignUp registers a new user and signs them in.
func (s *Service) SignUp(ctx context.Context, email, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	uf, err := s.loadUsers()
	if err != nil {
		return err
	}
	for _, u := range uf.Users {
		if u.Email == email {
			return fmt.Errorf("%s: %w", email, ErrUserExists)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	uf.Users = append(uf.Users, userRecord{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if err := s.saveUsers(uf); err != nil {
		return err
	}
	return s.writeSession(email)
}

// SignIn verifies the credentials and records the session.
func (s *Service) SignIn(ctx context.Context, email, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	email = normalizeEmail(email)

	uf, err := s.loadUsers()
	if err != nil {
		return err
	}
	for _, u := range uf.Users {
		if u.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return ErrBadCredentials
		}
		return s.writeSession(email)
	}
	return ErrBadCredentials
}

// SignOut removes the session. Signing out while signed out is not an error.
func (s *Service) SignOut() error {
	err := os.Remove(filepath.Join(s.dir, SessionFileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

// Current returns the signed-in user, or ErrUnauthenticated.
func (s *Service) Current(ctx context.Context) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, SessionFileName))
	if os.IsNotExist(err) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	email := strings.TrimSpace(string(data))
	if email == "" {
		return nil, ErrUnauthenticated
	}

	// A session for a deleted user is stale, not authenticated.
	uf, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	for _, u := range uf.Users {
		if u.Email == email {
			return &User{Email: email}, nil
		}
	}
	return nil, ErrUnauthenticated
}

func (s *Service) loadUsers() (*usersFile, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, UsersFileName))
	if os.IsNotExist(err) {
		return &usersFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading users: %w", err)
	}
	var uf usersFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return nil, fmt.Errorf("parsing users: %w", err)
	}
	return &uf, nil
}

func (s *Service) saveUsers(uf *usersFile) error {
	data, err := yaml.Marshal(uf)
	if err != nil {
		return fmt.Errorf("encoding users: %w", err)
	}
	// 0600: the file holds password hashes.
	if err := os.WriteFile(filepath.Join(s.dir, UsersFileName), data, 0o600); err != nil {
		return fmt.Errorf("writing users: %w", err)
	}
	return nil
}

func (s *Service) writeSession(email string) error {
	if err := os.WriteFile(filepath.Join(s.dir, SessionFileName), []byte(email+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return fmt.Errorf("invalid email address %q", email)
	}
	return nil
}
