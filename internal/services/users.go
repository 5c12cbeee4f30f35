package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/mossy-p/ballo/internal/apperrors"
	"github.com/mossy-p/ballo/internal/models"
	"github.com/mossy-p/ballo/internal/repository"
	"github.com/mossy-p/ballo/internal/store"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = apperrors.New(apperrors.CodeUnauthorized, "invalid email or password")

// UserService handles accounts and roles.
type UserService struct {
	users       *repository.Users
	adminEmails map[string]struct{}
	opts        Options
}

// NewUserService returns a UserService. Accounts registered with one of
// adminEmails get the admin role.
func NewUserService(s store.Store, adminEmails []string, opts Options) *UserService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = repository.NormalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &UserService{
		users:       repository.NewUsers(s),
		adminEmails: admins,
		opts:        opts,
	}
}

func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := repository.NormalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "password must be at least 8 characters")
	}

	cost := s.opts.PasswordCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), cost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidArgument, "password cannot be hashed", err)
	}

	role := models.RoleUser
	if _, ok := s.adminEmails[email]; ok {
		role = models.RoleAdmin
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	now := s.opts.now()
	user, err := s.users.Create(ctx, &models.User{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, apperrors.WithMetadata(apperrors.CodeAlreadyExists, "email is already registered",
			map[string]string{"email": email})
	}
	if err != nil {
		return nil, storeError(err, "user", "")
	}

	log.Printf("User registered: %s (%s)", user.ID, user.Role)
	return user, nil
}

// Authenticate checks an email/password pair.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, storeError(err, "user", "")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, storeError(err, "user", userID)
	}
	return user, nil
}

// BecomeParkOwner upgrades a plain user to park owner. Park owners and
// admins are returned unchanged.
func (s *UserService) BecomeParkOwner(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	user, err := retryOnConflict(ctx, s.opts, func() (*models.User, error) {
		u, err := s.users.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		if u.Role.CanOwnParks() {
			return u, nil
		}
		return s.users.Update(ctx, u, store.Patch{
			"role":      models.RoleParkOwner,
			"updatedAt": s.opts.now(),
		})
	})
	if err != nil {
		return nil, storeError(err, "user", userID)
	}

	log.Printf("User %s is now %s", userID, user.Role)
	return user, nil
}
