// Package identity implements the user identity store.
//
// The store owns the set of user records and orchestrates registration,
// login and password changes. Credentials go through the hashing package,
// candidate passwords through the policy engine, and every attempt is
// recorded to the audit log before the operation returns.
package identity

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/authvault/authvault/internal/audit"
	"github.com/authvault/authvault/internal/config"
	"github.com/authvault/authvault/internal/db/models"
	"github.com/authvault/authvault/internal/hashing"
	"github.com/authvault/authvault/internal/policy"
)

// Store owns the user records and their state transitions.
//
// A store-wide mutex makes the check-then-act sequences in Register and
// ChangePassword atomic with respect to concurrent callers.
type Store struct {
	mu     sync.Mutex
	db     *gorm.DB
	hasher *hashing.Hasher
	policy policy.Engine
	audit  *audit.Log

	exportDir       string
	tempPasswordLen int
}

// New creates the identity store.
func New(cfg *config.Config, gdb *gorm.DB, hasher *hashing.Hasher, engine policy.Engine, auditLog *audit.Log) *Store {
	return &Store{
		db:              gdb,
		hasher:          hasher,
		policy:          engine,
		audit:           auditLog,
		exportDir:       cfg.Storage.Dir,
		tempPasswordLen: cfg.Policy.TempPasswordLength,
	}
}

// Register creates a new account. The requested role is normalized to the
// closed role set before anything else. The audit entry for a registration
// is partitioned by the new account's own role; there is no separate
// acting-admin concept.
//
// The returned error reports environment faults only; business failures
// travel in the Result.
func (s *Store) Register(username, password string, role models.RoleInfo) (Result, error) {
	role = role.Normalize()

	valid, feedback := s.policy.Check(password)
	if !valid {
		if err := s.record(role.Role, nil, username, audit.ActionRegister, false, audit.Reason(feedback)); err != nil {
			return Result{}, err
		}

		return failure(CodePasswordInvalid, feedback...), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.lookup(username)
	if err != nil {
		return Result{}, err
	}

	if existing != nil {
		if err := s.record(role.Role, &existing.ID, username, audit.ActionRegister, false, audit.ReasonToken(CodeUsernameTaken)); err != nil {
			return Result{}, err
		}

		return failure(CodeUsernameTaken), nil
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return Result{}, fmt.Errorf("failed to hash credential: %w", err)
	}

	user := models.User{
		ID:       newUserID(username),
		Username: username,
		Password: digest,
		Role:     role.Role,
		Title:    role.Title,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return Result{}, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.record(role.Role, &user.ID, username, audit.ActionRegister, true, audit.ReasonToken(CodeUserCreated)); err != nil {
		return Result{}, err
	}

	return success(CodeUserCreated, &Payload{ID: user.ID, Username: username}), nil
}

// Login verifies a credential. It never mutates the force-reset flag; the
// caller drives the mandatory password change once a forced reset completes.
func (s *Store) Login(username, password string) (Result, error) {
	user, err := s.lookup(username)
	if err != nil {
		return Result{}, err
	}

	if user == nil {
		if err := s.record(models.RoleUser, nil, username, audit.ActionLogin, false, audit.ReasonToken(CodeUserNotFound)); err != nil {
			return Result{}, err
		}

		return failure(CodeUserNotFound), nil
	}

	if !s.hasher.Verify(password, user.Password) {
		if err := s.record(user.Role, &user.ID, username, audit.ActionLogin, false, audit.ReasonToken(CodeInvalidPassword)); err != nil {
			return Result{}, err
		}

		return failure(CodeInvalidPassword), nil
	}

	if err := s.record(user.Role, &user.ID, username, audit.ActionLogin, true, audit.ReasonToken(CodeCredentialsValid)); err != nil {
		return Result{}, err
	}

	role := user.RoleInfo()
	forceReset := user.ForceReset

	return success(CodeCredentialsValid, &Payload{
		ID:         user.ID,
		Username:   username,
		Role:       &role,
		ForceReset: &forceReset,
	}), nil
}

// ChangePassword swaps an account's credential. The old-credential check
// and the new-password policy check are independent gates; no mutation
// happens unless both pass. A successful change clears the force-reset
// flag.
func (s *Store) ChangePassword(username, oldPassword, newPassword string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.lookup(username)
	if err != nil {
		return Result{}, err
	}

	if user == nil {
		if err := s.record(models.RoleUser, nil, username, audit.ActionChangePassword, false, audit.ReasonToken(CodeUserNotFound)); err != nil {
			return Result{}, err
		}

		return failure(CodeUserNotFound), nil
	}

	if !s.hasher.Verify(oldPassword, user.Password) {
		if err := s.record(user.Role, &user.ID, username, audit.ActionChangePassword, false, audit.ReasonToken(CodeInvalidOldPassword)); err != nil {
			return Result{}, err
		}

		return failure(CodeInvalidOldPassword), nil
	}

	valid, feedback := s.policy.Check(newPassword)
	if !valid {
		if err := s.record(user.Role, &user.ID, username, audit.ActionChangePassword, false, audit.Reason(feedback)); err != nil {
			return Result{}, err
		}

		return failure(CodePasswordPolicyFailed, feedback...), nil
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return Result{}, fmt.Errorf("failed to hash credential: %w", err)
	}

	updates := map[string]interface{}{
		"password":    digest,
		"force_reset": false,
	}

	if err := s.db.Model(&models.User{}).Where("username = ?", username).Updates(updates).Error; err != nil {
		return Result{}, fmt.Errorf("failed to update credential: %w", err)
	}

	if err := s.record(user.Role, &user.ID, username, audit.ActionChangePassword, true, audit.ReasonToken(CodePasswordChanged)); err != nil {
		return Result{}, err
	}

	return success(CodePasswordChanged, &Payload{Username: username}), nil
}

// lookup finds a user by username. A missing record is not an error.
func (s *Store) lookup(username string) (*models.User, error) {
	var user models.User

	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

func (s *Store) record(role models.Role, actorID *string, username, action string, ok bool, reason audit.Reason) error {
	return s.audit.Record(role, audit.Entry{ //nolint:wrapcheck
		ActorID:  actorID,
		Username: username,
		Action:   action,
		Success:  ok,
		Reason:   reason,
	})
}

// newUserID derives an opaque, globally unique id for a fresh record.
func newUserID(username string) string {
	return username + "_" + uuid.NewString()
}
