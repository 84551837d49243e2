package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abgdnv/storefront/internal/entity"
	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/model"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// PrimaryAdminID is the account that can never be deleted.
const PrimaryAdminID = "user1"

// AdminRole is given to the account created by EnsureAdmin.
const AdminRole = "admin"

// UserService manages login accounts. Passwords never leave the service.
type UserService interface {
	List(ctx context.Context) ([]model.UserView, error)
	Get(ctx context.Context, id string) (*model.UserView, error)
	Create(ctx context.Context, dto UserCreateDto) (*model.UserView, error)
	// Update overwrites only the non-empty fields of dto.
	Update(ctx context.Context, id string, dto UserUpdateDto) (*model.UserView, error)
	// Delete refuses to remove PrimaryAdminID.
	Delete(ctx context.Context, id string) error
	// Authenticate returns the user matching the credentials, or ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (*model.UserView, error)
}

type UserCreateDto struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type UserUpdateDto struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Users implements UserService.
type Users struct {
	records  *Records[model.User, *model.User]
	coll     store.Collection[model.User]
	store    store.TxStore
	locks    *store.Locks
	validate *validator.Validate
	cost     int
	logger   *slog.Logger
}

var _ UserService = (*Users)(nil)

// NewUserService creates a Users hashing passwords with the given bcrypt cost.
// A cost of zero selects bcrypt.DefaultCost.
func NewUserService(deps Deps, cost int) *Users {
	deps = deps.withDefaults()
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	records := NewRecords[model.User, *model.User](deps, model.Users, model.UserPrefix, apperrors.ErrUserNotFound, Hooks[model.User]{
		BeforeSave: func(_ context.Context, _ store.RecordStore, u *model.User, others []model.User) error {
			for _, other := range others {
				if other.Username == u.Username {
					return fmt.Errorf("%q: %w", u.Username, apperrors.ErrUsernameTaken)
				}
			}
			return nil
		},
	})
	return &Users{
		records:  records,
		coll:     store.NewCollection[model.User](model.Users, deps.Logger),
		store:    deps.Store,
		locks:    deps.Locks,
		validate: deps.Validate,
		cost:     cost,
		logger:   deps.Logger.With("component", "user-service"),
	}
}

func (s *Users) List(ctx context.Context) ([]model.UserView, error) {
	users, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]model.UserView, len(users))
	for i, u := range users {
		views[i] = u.View()
	}
	return views, nil
}

func (s *Users) Get(ctx context.Context, id string) (*model.UserView, error) {
	u, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := u.View()
	return &view, nil
}

func (s *Users) Create(ctx context.Context, dto UserCreateDto) (*model.UserView, error) {
	if err := checkStruct(s.validate, dto); err != nil {
		return nil, err
	}
	hash, err := s.hash(dto.Password)
	if err != nil {
		return nil, err
	}
	created, err := s.records.Create(ctx, model.User{Username: dto.Username, Password: hash, Role: dto.Role})
	if err != nil {
		return nil, err
	}
	view := created.View()
	return &view, nil
}

func (s *Users) Update(ctx context.Context, id string, dto UserUpdateDto) (*model.UserView, error) {
	patch := make(map[string]string, 3)
	if dto.Username != "" {
		patch["username"] = dto.Username
	}
	if dto.Role != "" {
		patch["role"] = dto.Role
	}
	if dto.Password != "" {
		hash, err := s.hash(dto.Password)
		if err != nil {
			return nil, err
		}
		patch["password"] = hash
	}
	body, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	updated, err := s.records.Update(ctx, id, body)
	if err != nil {
		return nil, err
	}
	view := updated.View()
	return &view, nil
}

func (s *Users) Delete(ctx context.Context, id string) error {
	if id == PrimaryAdminID {
		return apperrors.ErrProtectedUser
	}
	return s.records.Delete(ctx, id)
}

func (s *Users) Authenticate(ctx context.Context, username, password string) (*model.UserView, error) {
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}
	users, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}
	var found *model.User
	for i := range users {
		if users[i].Username == username {
			found = &users[i]
			break
		}
	}
	if found == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !isBcryptHash(found.Password) {
		if subtle.ConstantTimeCompare([]byte(found.Password), []byte(password)) != 1 {
			return nil, apperrors.ErrInvalidCredentials
		}
		s.upgradeLegacyPassword(ctx, found.ID, password)
	} else if err := bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	view := found.View()
	return &view, nil
}

// EnsureAdmin creates PrimaryAdminID when the user collection is empty.
func (s *Users) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	users, err := s.records.List(ctx)
	if err != nil {
		return false, err
	}
	if len(users) > 0 {
		return false, nil
	}
	created, err := s.Create(ctx, UserCreateDto{Username: username, Password: password, Role: AdminRole})
	if err != nil {
		return false, err
	}
	s.logger.InfoContext(ctx, "Created primary administrator", "id", created.ID, "username", created.Username)
	return true, nil
}

// upgradeLegacyPassword replaces a plaintext password kept by older data files with its hash.
// Failures are logged, the login itself already succeeded.
func (s *Users) upgradeLegacyPassword(ctx context.Context, id, password string) {
	hash, err := s.hash(password)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to hash legacy password", "id", id, "error", err)
		return
	}
	unlock := s.locks.Lock(model.Users)
	defer unlock()
	err = s.store.WithTx(ctx, func(tx store.RecordStore) error {
		users, err := s.coll.Load(ctx, tx)
		if err != nil {
			return err
		}
		idx := entity.IndexOf(users, id)
		if idx < 0 || isBcryptHash(users[idx].Password) {
			return nil
		}
		users[idx].Password = hash
		return s.coll.Save(ctx, tx, users)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to store upgraded password hash", "id", id, "error", err)
		return
	}
	s.logger.InfoContext(ctx, "Upgraded plaintext password to bcrypt", "id", id)
}

func (s *Users) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return string(hash), nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
