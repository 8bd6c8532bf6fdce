package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/entities"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

var (
	ErrLibrarianNotFound = errors.New("librarian not found")
	ErrLibrarianExists   = errors.New("librarian already exists")
	ErrSetupCompleted    = errors.New("a librarian account already exists")
	ErrUsernameRequired  = errors.New("username is required")
	ErrEmailRequired     = errors.New("email is required")
	ErrPasswordRequired  = errors.New("password is required")
	ErrAccountLocked     = errors.New("account is locked due to too many failed login attempts")
	ErrUsernameInvalid   = errors.New("username must be 3-64 characters, alphanumeric and underscore/hyphen only")
	ErrEmailInvalid      = errors.New("invalid email format")
)

const (
	defaultMaxLoginAttempts = 5
	defaultLockoutDuration  = 30 * time.Minute
)

// Service manages librarian accounts and credential checks.
type Service struct {
	db     *gorm.DB
	config config.Auth
	now    func() time.Time
}

// NewService creates a new authentication service.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	return &Service{
		db:     db,
		config: cfg,
		now:    time.Now,
	}
}

// SetClock replaces the time source used for lockout decisions.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Mode returns the configured authentication mode.
func (s *Service) Mode() config.AuthMode {
	return s.config.Mode
}

// CreateLibrarian registers a librarian with a password login.
func (s *Service) CreateLibrarian(username, email, password string) (*entities.Librarian, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	switch {
	case username == "":
		return nil, ErrUsernameRequired
	case email == "":
		return nil, ErrEmailRequired
	case password == "":
		return nil, ErrPasswordRequired
	}
	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}
	if err := ozzo.Validate(email, is.EmailFormat); err != nil {
		return nil, ErrEmailInvalid
	}

	var existing entities.Librarian
	err := s.db.Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		return nil, ErrLibrarianExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing librarian: %w", err)
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	librarian := &entities.Librarian{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.db.Create(librarian).Error; err != nil {
		return nil, fmt.Errorf("failed to create librarian: %w", err)
	}

	return librarian, nil
}

// Setup creates the first librarian. It fails once any account exists.
func (s *Service) Setup(username, email, password string) (*entities.Librarian, error) {
	exists, err := s.HasLibrarians()
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSetupCompleted
	}
	return s.CreateLibrarian(username, email, password)
}

// Authenticate validates credentials by username or email.
// Repeated failures lock the account for the configured duration.
func (s *Service) Authenticate(login, password string) (*entities.Librarian, error) {
	var librarian entities.Librarian
	err := s.db.Where("username = ? OR email = ?", login, login).First(&librarian).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLibrarianNotFound
		}
		return nil, fmt.Errorf("failed to find librarian: %w", err)
	}

	now := s.now()
	if librarian.IsLocked(now) {
		return nil, ErrAccountLocked
	}

	if err := CheckPassword(password, librarian.PasswordHash); err != nil {
		s.recordFailedLogin(&librarian, now)
		return nil, err
	}

	librarian.LastLoginAt = &now
	librarian.FailedLoginCount = 0
	librarian.LockedUntil = nil
	if err := s.db.Model(&librarian).Updates(map[string]any{
		"last_login_at":      now,
		"failed_login_count": 0,
		"locked_until":       nil,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	return &librarian, nil
}

func (s *Service) recordFailedLogin(librarian *entities.Librarian, now time.Time) {
	librarian.FailedLoginCount++
	updates := map[string]any{
		"failed_login_count": librarian.FailedLoginCount,
	}

	maxAttempts := s.config.MaxLoginAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxLoginAttempts
	}
	if librarian.FailedLoginCount >= maxAttempts {
		lockout := s.config.LockoutDuration
		if lockout <= 0 {
			lockout = defaultLockoutDuration
		}
		lockedUntil := now.Add(lockout)
		librarian.LockedUntil = &lockedUntil
		updates["locked_until"] = lockedUntil
	}

	s.db.Model(librarian).Updates(updates)
}

// GetLibrarianByID retrieves a librarian by ID.
func (s *Service) GetLibrarianByID(id uint) (*entities.Librarian, error) {
	var librarian entities.Librarian
	if err := s.db.First(&librarian, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLibrarianNotFound
		}
		return nil, err
	}
	return &librarian, nil
}

// ChangePassword replaces a librarian's password after checking the old one.
func (s *Service) ChangePassword(id uint, oldPassword, newPassword string) error {
	librarian, err := s.GetLibrarianByID(id)
	if err != nil {
		return err
	}
	if err := CheckPassword(oldPassword, librarian.PasswordHash); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}
	return s.db.Model(librarian).Update("password_hash", hash).Error
}

// HasLibrarians reports whether at least one account exists.
func (s *Service) HasLibrarians() (bool, error) {
	var count int64
	if err := s.db.Model(&entities.Librarian{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
