package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/Eckho-Systems/Inventory-System/internal/apperror"
	"github.com/Eckho-Systems/Inventory-System/internal/config"
	"github.com/Eckho-Systems/Inventory-System/internal/dto"
	"github.com/Eckho-Systems/Inventory-System/internal/metrics"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
	"github.com/Eckho-Systems/Inventory-System/internal/permissions"
	"github.com/Eckho-Systems/Inventory-System/internal/repository"
)

// AuthService owns login and user account management. Account mutations are
// gated by the role hierarchy: the Actor must outrank (or for creation, at
// least match) the target role.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, actor Actor, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeactivateUser(ctx context.Context, actor Actor, id uuid.UUID) error
	DeleteUser(ctx context.Context, actor Actor, id uuid.UUID) error
}

// dummyPinHash is a valid bcrypt digest compared against when the username
// does not resolve, keeping the unknown-user path as slow as the wrong-PIN
// path.
var dummyPinHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

type authService struct {
	users repository.UserRepository
	cfg   *config.Config
}

func NewAuthService(users repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{users: users, cfg: cfg}
}

// Login verifies username+PIN and issues an access token. Failures are
// indistinguishable to the caller whether the username is unknown, the PIN is
// wrong, or the account is deactivated.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		// Burn a bcrypt comparison anyway so response timing does not reveal
		// whether the username exists.
		_ = bcrypt.CompareHashAndPassword(dummyPinHash, []byte(req.Pin))
		metrics.Logins.WithLabelValues("failure").Inc()
		return nil, apperror.Authentication()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(req.Pin)); err != nil {
		metrics.Logins.WithLabelValues("failure").Inc()
		return nil, apperror.Authentication()
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		// Login still succeeds; the timestamp is informational.
		log.Warn().Err(err).Str("user", user.Username).Msg("failed to record last login")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	metrics.Logins.WithLabelValues("success").Inc()

	perms := permissions.For(user.Role)
	permNames := make([]string, len(perms))
	for i, p := range perms {
		permNames[i] = string(p)
	}
	resp := dto.NewUserResponse(user)
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		User:        resp,
		Permissions: permNames,
	}, nil
}

func (s *authService) CreateUser(ctx context.Context, actor Actor, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := model.Role(req.Role)
	if !permissions.CanCreateRole(actor.Role, role) {
		return nil, apperror.Forbidden("role %s cannot create a %s account", actor.Role, role)
	}

	// Any-status check: a deactivated account keeps its username reserved.
	exists, err := s.users.ExistsUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Duplicate("username %q is taken", req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: req.Username,
		Name:     req.Name,
		PinHash:  string(hash),
		Role:     role,
		Active:   true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Str("username", user.Username).Str("role", string(user.Role)).
		Str("created_by", actor.Username).Msg("user created")
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewUserListResponse(users), nil
}

func (s *authService) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *authService) UpdateUser(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != id && !permissions.CanManageUser(actor.Role, user.Role) {
		return nil, apperror.Forbidden("role %s cannot manage a %s account", actor.Role, user.Role)
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Role != "" {
		newRole := model.Role(req.Role)
		// Role changes follow the creation rule and are never self-applied:
		// an owner demoting themselves would leave the store ungoverned.
		if actor.ID == id {
			return nil, apperror.Forbidden("cannot change your own role")
		}
		if !permissions.CanCreateRole(actor.Role, newRole) {
			return nil, apperror.Forbidden("role %s cannot assign role %s", actor.Role, newRole)
		}
		user.Role = newRole
	}
	if req.Pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PinHash = string(hash)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// DeactivateUser disables login for the account. Deactivating an already
// inactive or absent account is a no-op.
func (s *authService) DeactivateUser(ctx context.Context, actor Actor, id uuid.UUID) error {
	if actor.ID == id {
		return apperror.Forbidden("cannot deactivate your own account")
	}
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, apperror.NotFound("user")) {
		return nil
	}
	if err != nil {
		return err
	}
	if !permissions.CanManageUser(actor.Role, user.Role) {
		return apperror.Forbidden("role %s cannot manage a %s account", actor.Role, user.Role)
	}
	return s.users.Deactivate(ctx, id)
}

func (s *authService) DeleteUser(ctx context.Context, actor Actor, id uuid.UUID) error {
	if actor.ID == id {
		return apperror.Forbidden("cannot delete your own account")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !permissions.CanDeleteUser(actor.Role, user.Role) {
		return apperror.Forbidden("role %s cannot delete a %s account", actor.Role, user.Role)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("username", user.Username).Str("deleted_by", actor.Username).Msg("user deleted")
	return nil
}

func (s *authService) generateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"name":     user.Name,
		"role":     string(user.Role),
		"exp":      now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
