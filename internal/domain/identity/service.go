package identity

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/carelink/crm/internal/platform/db"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords so the login endpoint never leaks which accounts exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Seed admin credential. Meant to be changed right after first deploy.
const (
	AdminUsername      = "admin"
	AdminEmail         = "admin@crm.com"
	DefaultAdminSecret = "admin123"
)

type Service struct {
	users    UserRepository
	patients PatientRepository
}

func NewService(users UserRepository, patients PatientRepository) *Service {
	return &Service{users: users, patients: patients}
}

// -- Users --

var validRoles = map[string]bool{
	"admin": true, "doctor": true, "staff": true,
}

func (s *Service) CreateUser(ctx context.Context, u *User, password string) error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if u.Role == "" {
		u.Role = "staff"
	}
	if !validRoles[u.Role] {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	u.PasswordHash = string(hash)
	return s.users.Create(ctx, u)
}

// Authenticate verifies a username/password pair. Unknown usernames and
// wrong passwords collapse into ErrInvalidCredentials; infrastructure
// failures surface as themselves so callers can answer 500 instead of 401.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *Service) ListDoctors(ctx context.Context) ([]*User, error) {
	return s.users.ListByRole(ctx, "doctor")
}

// EnsureAdmin seeds the admin account if it does not exist. Running it
// again is a no-op, so startup can always call it.
func (s *Service) EnsureAdmin(ctx context.Context) (bool, error) {
	if _, err := s.users.GetByUsername(ctx, AdminUsername); err == nil {
		return false, nil
	}
	u := &User{Username: AdminUsername, Email: AdminEmail, Role: "admin"}
	if err := s.CreateUser(ctx, u, DefaultAdminSecret); err != nil {
		return false, fmt.Errorf("seeding admin user: %w", err)
	}
	return true, nil
}

// ResetAdmin seeds the admin account, or resets its credential to the
// default when it already exists. Returns whether a row was created and
// the total user count.
func (s *Service) ResetAdmin(ctx context.Context) (bool, int, error) {
	u, err := s.users.GetByUsername(ctx, AdminUsername)
	if err != nil {
		created, err := s.EnsureAdmin(ctx)
		if err != nil {
			return false, 0, err
		}
		total, err := s.users.Count(ctx)
		return created, total, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminSecret), bcrypt.DefaultCost)
	if err != nil {
		return false, 0, fmt.Errorf("hashing password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, string(hash)); err != nil {
		return false, 0, fmt.Errorf("resetting admin password: %w", err)
	}
	total, err := s.users.Count(ctx)
	return false, total, err
}

// -- Patients --

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) CountPatients(ctx context.Context) (int, error) {
	return s.patients.Count(ctx)
}
