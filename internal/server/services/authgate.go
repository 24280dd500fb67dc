// Package services contains server-side business logic. This file implements
// the authorization gate: PIN verification against bcrypt hashes, the
// failed-attempt lockout, and single-use operation-scoped supervisor tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/tillpoint/internal/common"
	"github.com/dmitrijs2005/tillpoint/internal/logging"
	"github.com/dmitrijs2005/tillpoint/internal/server/auth"
	"github.com/dmitrijs2005/tillpoint/internal/server/config"
	"github.com/dmitrijs2005/tillpoint/internal/server/models"
	"github.com/dmitrijs2005/tillpoint/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// AuthToken is a single-use supervisor authorization, scoped to one
// operation. It lives only in memory and is consumed by exactly one
// subsequent sensitive call.
type AuthToken struct {
	ID        string
	SubjectID string
	Role      models.Role
	Operation models.Operation
	Expires   time.Time
}

type lockoutState struct {
	failures    int
	lastFailure time.Time
	lockedUntil time.Time
}

// AuthGateService verifies PIN credentials and vends supervisor tokens.
type AuthGateService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cfg         *config.Config
	logger      logging.Logger

	mu       sync.Mutex
	tokens   map[string]*AuthToken
	lockouts map[string]*lockoutState

	now func() time.Time
}

// NewAuthGateService constructs an AuthGateService using repositories and
// server config.
func NewAuthGateService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *AuthGateService {
	return &AuthGateService{
		db:          db,
		repomanager: m,
		cfg:         cfg,
		logger:      logger,
		tokens:      make(map[string]*AuthToken),
		lockouts:    make(map[string]*lockoutState),
		now:         time.Now,
	}
}

// VerifyCredential checks the PIN against the stored bcrypt hash. Lockout is
// enforced per user name: after LockoutMaxFailures consecutive failures the
// account is rejected until the cool-down expires, regardless of the PIN
// supplied. bcrypt compares the derived hash in constant time.
func (s *AuthGateService) VerifyCredential(ctx context.Context, userName, pin string) (*models.User, error) {
	if locked, until := s.isLockedOut(userName); locked {
		s.logger.Warn(ctx, "login attempt on locked account", "username", userName, "until", until)
		return nil, fmt.Errorf("account temporarily locked: %w", common.ErrAuthorization)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Burn a comparison anyway so absent users cost the same as
			// wrong PINs.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(pin))
			s.recordFailure(userName)
			return nil, common.ErrAuthorization
		}
		return nil, common.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PINHash, []byte(pin)); err != nil {
		s.recordFailure(userName)
		return nil, common.ErrAuthorization
	}

	s.clearFailures(userName)
	return user, nil
}

// Login verifies the credential and mints a cashier access token.
func (s *AuthGateService) Login(ctx context.Context, userName, pin string) (string, *models.User, error) {
	user, err := s.VerifyCredential(ctx, userName, pin)
	if err != nil {
		return "", nil, err
	}

	token, err := auth.GenerateToken(user.ID, user.Role, []byte(s.cfg.SecretKey), s.cfg.AccessTokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrInternal
	}
	return token, user, nil
}

// AuthorizeSupervisor verifies a supervisor's PIN and, when the role may
// authorize the requested operation, issues a single-use token for it.
func (s *AuthGateService) AuthorizeSupervisor(ctx context.Context, userName, pin string, op models.Operation) (*AuthToken, error) {
	user, err := s.VerifyCredential(ctx, userName, pin)
	if err != nil {
		return nil, err
	}

	if !user.Role.IsSupervisor() {
		s.logger.Warn(ctx, "authorization refused", "username", userName, "role", user.Role)
		return nil, fmt.Errorf("role %s is not a supervisor role: %w", user.Role, common.ErrAuthorization)
	}
	if !user.Role.CanAuthorize(op) {
		s.logger.Warn(ctx, "authorization refused", "username", userName, "role", user.Role, "operation", op)
		return nil, fmt.Errorf("role %s cannot authorize %s: %w", user.Role, op, common.ErrAuthorization)
	}

	id, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, common.ErrInternal
	}

	token := &AuthToken{
		ID:        id,
		SubjectID: user.ID,
		Role:      user.Role,
		Operation: op,
		Expires:   s.now().Add(s.cfg.AuthTokenTTL),
	}

	s.mu.Lock()
	s.sweepExpiredLocked()
	s.tokens[token.ID] = token
	s.mu.Unlock()

	return token, nil
}

// Consume redeems a supervisor token for the given operation. The token is
// burned on first use; a second redemption, a scope mismatch, or an expired
// token all yield ErrAuthorization.
func (s *AuthGateService) Consume(tokenID string, op models.Operation) (subjectID string, err error) {
	if tokenID == "" {
		return "", fmt.Errorf("supervisor authorization required: %w", common.ErrAuthorization)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[tokenID]
	if !ok {
		return "", fmt.Errorf("unknown or already used authorization: %w", common.ErrAuthorization)
	}
	delete(s.tokens, tokenID)

	if s.now().After(token.Expires) {
		return "", fmt.Errorf("authorization expired: %w", common.ErrAuthorization)
	}
	if token.Operation != op {
		return "", fmt.Errorf("authorization not valid for %s: %w", op, common.ErrAuthorization)
	}
	return token.SubjectID, nil
}

// CreateUser provisions a new employee. The caller's role must be allowed
// to manage users; the PIN is stored as a bcrypt hash with the configured
// cost.
func (s *AuthGateService) CreateUser(ctx context.Context, actorRole models.Role, userName, pin string, role models.Role, locationID string) (*models.User, error) {
	if !actorRole.CanAuthorize(models.OpManageUsers) {
		return nil, fmt.Errorf("role %s cannot manage users: %w", actorRole, common.ErrAuthorization)
	}
	return s.createUser(ctx, userName, pin, role, locationID)
}

// Bootstrap ensures at least one administrator exists so a fresh deployment
// can log in and provision the rest of the staff. It is a no-op once the
// bootstrap account is present; changing the account's PIN afterwards is the
// operator's job.
func (s *AuthGateService) Bootstrap(ctx context.Context) error {
	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByUserName(ctx, s.cfg.BootstrapAdminUser)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	if _, err := s.createUser(ctx, s.cfg.BootstrapAdminUser, s.cfg.BootstrapAdminPIN, models.RoleAdmin, ""); err != nil {
		return err
	}
	s.logger.Warn(ctx, "bootstrap administrator created, change the PIN", "username", s.cfg.BootstrapAdminUser)
	return nil
}

func (s *AuthGateService) createUser(ctx context.Context, userName, pin string, role models.Role, locationID string) (*models.User, error) {
	if userName == "" || pin == "" {
		return nil, fmt.Errorf("username and pin are required: %w", common.ErrValidation)
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("unknown role %q: %w", role, common.ErrValidation)
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByUserName(ctx, userName); err == nil {
		return nil, fmt.Errorf("user %s already exists: %w", userName, common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), s.cfg.BcryptCost)
	if err != nil {
		return nil, common.ErrInternal
	}

	user, err := repo.Create(ctx, &models.User{
		UserName:   userName,
		PINHash:    hash,
		Role:       role,
		LocationID: locationID,
	})
	if err != nil {
		return nil, common.ErrInternal
	}

	s.logger.Info(ctx, "user created", "username", userName, "role", role)
	return user, nil
}

// dummyHash is compared against when the user does not exist, to keep the
// timing of failed lookups close to failed comparisons.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("0000"), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
}()

func (s *AuthGateService) isLockedOut(userName string) (bool, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.lockouts[userName]
	if !ok {
		return false, time.Time{}
	}
	if st.lockedUntil.After(s.now()) {
		return true, st.lockedUntil
	}
	return false, time.Time{}
}

func (s *AuthGateService) recordFailure(userName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep the map bounded: a sweep of random usernames must not grow it
	// without limit.
	s.sweepExpiredLocked()

	st, ok := s.lockouts[userName]
	if !ok {
		st = &lockoutState{}
		s.lockouts[userName] = st
	}

	// A failure after an expired lock starts a fresh count.
	if !st.lockedUntil.IsZero() && !st.lockedUntil.After(s.now()) {
		st.failures = 0
		st.lockedUntil = time.Time{}
	}

	st.failures++
	st.lastFailure = s.now()
	if st.failures >= s.cfg.LockoutMaxFailures {
		st.lockedUntil = s.now().Add(s.cfg.LockoutCooldown)
	}
}

func (s *AuthGateService) clearFailures(userName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lockouts, userName)
}

// sweepExpiredLocked drops expired tokens and stale lockout entries. Callers
// must hold s.mu. A lockout entry is stale once its last failure is older
// than the cool-down and no lock is active anymore.
func (s *AuthGateService) sweepExpiredLocked() {
	now := s.now()
	for id, t := range s.tokens {
		if now.After(t.Expires) {
			delete(s.tokens, id)
		}
	}
	for name, st := range s.lockouts {
		if st.lockedUntil.After(now) {
			continue
		}
		if now.Sub(st.lastFailure) > s.cfg.LockoutCooldown {
			delete(s.lockouts, name)
		}
	}
}
