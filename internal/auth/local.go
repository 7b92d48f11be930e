package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/user"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/models"
)

// PasswordHasher hashes new passwords and verifies stored hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
	NeedsRehash(hash string) bool
}

// Argon2id hashes with Argon2id and verifies Argon2id as well as bcrypt hashes.
type Argon2id struct {
	// Params defaults to argon2id.DefaultParams if nil.
	Params *argon2id.Params
}

// NewArgon2id returns a hasher using the default Argon2id parameters.
func NewArgon2id() *Argon2id {
	return &Argon2id{Params: argon2id.DefaultParams}
}

// Hash implements PasswordHasher.
func (h *Argon2id) Hash(password string) (string, error) {
	params := h.Params
	if params == nil {
		params = argon2id.DefaultParams
	}

	hash, err := argon2id.CreateHash(password, params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return hash, nil
}

// Verify implements PasswordHasher. The comparison is constant-time for both
// hash formats.
func (h *Argon2id) Verify(password, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return argon2id.ComparePasswordAndHash(password, hash) //nolint:wrapcheck
	case isBcrypt(hash):
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}

		return err == nil, err //nolint:wrapcheck
	default:
		return false, ErrUnsupportedHash
	}
}

// NeedsRehash reports whether hash should be replaced by a fresh Argon2id hash.
func (h *Argon2id) NeedsRehash(hash string) bool {
	return !strings.HasPrefix(hash, "$argon2id$")
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db     *gorm.DB
	hasher PasswordHasher
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB, hasher PasswordHasher) *LocalProvider {
	return &LocalProvider{
		db:     db,
		hasher: hasher,
	}
}

// Authenticate authenticates a user by email and password.
// A legacy hash is upgraded after a successful login; a failed upgrade is
// logged and does not fail the login.
func (p *LocalProvider) Authenticate(email, password string) (*models.User, error) {
	u, err := user.GetByEmail(p.db, email)
	if errors.Is(err, user.ErrEmailNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	// Check if user is active
	if !u.Active {
		return nil, ErrUserAccountDisabled
	}

	ok, err := p.hasher.Verify(password, u.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	if !ok {
		return nil, ErrInvalidPassword
	}

	if p.hasher.NeedsRehash(u.Password) {
		p.rehash(u, password)
	}

	return u, nil
}

func (p *LocalProvider) rehash(u *models.User, password string) {
	hash, err := p.hasher.Hash(password)
	if err == nil {
		err = p.db.Model(&models.User{}).Where("id = ?", u.ID).Update("password", hash).Error
	}

	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to upgrade password hash")

		return
	}

	u.Password = hash
}
