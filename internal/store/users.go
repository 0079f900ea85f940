// Package store persists dashboard metadata and the user directory as JSON
// files under DATA_DIR. Files are rewritten whole under a mutex; writes go
// through a temp file and rename so a crash never leaves a torn file.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"campaigndash-be/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateEmail     = errors.New("a user with this email already exists")
	ErrBootstrapAdmin     = errors.New("the bootstrap admin account cannot be deleted")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const bootstrapAdminPassword = "admin123"

// storedUser is the on-disk shape. The API model hides the password hash
// from JSON entirely, so persistence needs its own struct.
type storedUser struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"passwordHash"`
	DisplayName      string    `json:"displayName"`
	CreatedAt        time.Time `json:"createdAt"`
	IsActive         bool      `json:"isActive"`
	AllowedCampaigns []string  `json:"allowedCampaigns"`
}

func (s storedUser) toModel() models.User {
	return models.User{
		ID:               s.ID,
		Email:            s.Email,
		PasswordHash:     s.PasswordHash,
		DisplayName:      s.DisplayName,
		CreatedAt:        s.CreatedAt,
		IsActive:         s.IsActive,
		AllowedCampaigns: s.AllowedCampaigns,
	}
}

// UserStore is the file-backed user directory.
type UserStore struct {
	path string
	mu   sync.Mutex
	log  *zap.Logger
}

func NewUserStore(dataDir string, log *zap.Logger) *UserStore {
	return &UserStore{
		path: filepath.Join(dataDir, "users.json"),
		log:  log,
	}
}

// load reads the directory, creating it with the bootstrap admin on first
// use. Callers must hold the mutex.
func (s *UserStore) load() ([]storedUser, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s.bootstrap()
	}
	if err != nil {
		return nil, err
	}

	var users []storedUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return s.bootstrap()
	}
	return users, nil
}

func (s *UserStore) bootstrap() ([]storedUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(bootstrapAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := storedUser{
		ID:               uuid.NewString(),
		Email:            models.AdminEmail,
		PasswordHash:     string(hash),
		DisplayName:      "Admin User",
		CreatedAt:        time.Now().UTC(),
		IsActive:         true,
		AllowedCampaigns: []string{"roger", "reachify", "prusa", "unified"},
	}
	users := []storedUser{admin}
	if err := s.save(users); err != nil {
		return nil, err
	}
	s.log.Info("created bootstrap admin user", zap.String("email", admin.Email))
	return users, nil
}

func (s *UserStore) save(users []storedUser) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// List returns every user, bootstrap admin included.
func (s *UserStore) List() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.toModel())
	}
	return out, nil
}

// Create adds a new user. Email uniqueness is case-insensitive.
func (s *UserStore) Create(req models.CreateUserRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, req.Email) {
			return nil, ErrDuplicateEmail
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := storedUser{
		ID:               uuid.NewString(),
		Email:            req.Email,
		PasswordHash:     string(hash),
		DisplayName:      req.DisplayName,
		CreatedAt:        time.Now().UTC(),
		IsActive:         true,
		AllowedCampaigns: req.AllowedCampaigns,
	}
	users = append(users, user)
	if err := s.save(users); err != nil {
		return nil, err
	}

	model := user.toModel()
	return &model, nil
}

// Update applies a partial update; nil request fields keep their current
// values.
func (s *UserStore) Update(id string, req models.UpdateUserRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID != id {
			continue
		}

		if req.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
			users[i].PasswordHash = string(hash)
		}
		if req.DisplayName != nil {
			users[i].DisplayName = *req.DisplayName
		}
		if req.AllowedCampaigns != nil {
			users[i].AllowedCampaigns = req.AllowedCampaigns
		}

		if err := s.save(users); err != nil {
			return nil, err
		}
		model := users[i].toModel()
		return &model, nil
	}
	return nil, ErrNotFound
}

// Delete removes a user. The bootstrap admin is protected.
func (s *UserStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID != id {
			continue
		}
		if strings.EqualFold(users[i].Email, models.AdminEmail) {
			return ErrBootstrapAdmin
		}
		users = append(users[:i], users[i+1:]...)
		return s.save(users)
	}
	return ErrNotFound
}

// Authenticate verifies the password for an active account.
func (s *UserStore) Authenticate(email, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if !u.IsActive {
			return nil, ErrInvalidCredentials
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		model := u.toModel()
		return &model, nil
	}
	return nil, ErrInvalidCredentials
}

// GetByID returns one user.
func (s *UserStore) GetByID(id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			model := u.toModel()
			return &model, nil
		}
	}
	return nil, ErrNotFound
}
