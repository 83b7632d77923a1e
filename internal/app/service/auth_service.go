package service

import (
	"context"
	"time"

	"github.com/ikkim/store-rating-backend/internal/app/model"
	"github.com/ikkim/store-rating-backend/internal/app/repository"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
	"github.com/ikkim/store-rating-backend/pkg/logger"
	"github.com/ikkim/store-rating-backend/pkg/util"
	"gorm.io/gorm"
)

// TokenRevoker stores revoked tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Role     model.UserRole
}

// ProfileUpdate holds the fields a caller asked to change; nil means keep.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Address  *string
	Role     *model.UserRole
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	GetProfile(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfile(ctx context.Context, actor model.Identity, upd ProfileUpdate) (*model.User, error)
	ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error
	Logout(ctx context.Context, token string) error
}

type authService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	storeRepo  repository.StoreRepository
	revoker    TokenRevoker
	jwtSecret  string
	jwtExpiry  time.Duration
	bcryptCost int
}

// NewAuthService wires the auth flows. revoker may be nil, in which case
// logout only acknowledges the request.
func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	revoker TokenRevoker,
	jwtSecret string,
	jwtExpiry time.Duration,
	bcryptCost int,
) AuthService {
	return &authService{
		db:         db,
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		revoker:    revoker,
		jwtSecret:  jwtSecret,
		jwtExpiry:  jwtExpiry,
		bcryptCost: bcryptCost,
	}
}

// Register creates the user and, for store owners, their store in one
// transaction, then issues a token.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	if in.Role == "" {
		in.Role = model.RoleUser
	}

	logger.Info("Attempting user registration", map[string]interface{}{
		"email": in.Email,
		"role":  in.Role,
	})

	hash, err := util.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, "", err
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Address:      in.Address,
		Role:         in.Role,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			if apperrors.IsUniqueViolation(err) {
				return ErrEmailAlreadyExists.Wrap(err)
			}
			return err
		}

		if user.Role != model.RoleStoreOwner {
			return nil
		}

		store := &model.Store{
			Name:    model.DefaultStoreName(user.Name),
			Email:   user.Email,
			Address: user.Address,
			OwnerID: user.ID,
		}
		if err := s.storeRepo.WithTx(tx).Create(ctx, store); err != nil {
			return err
		}

		logger.Info("Store created for new store owner", map[string]interface{}{
			"user_id":  user.ID,
			"store_id": store.ID,
		})
		return nil
	})
	if err != nil {
		logger.Warn("User registration failed", map[string]interface{}{
			"email": in.Email,
			"error": err.Error(),
		})
		return nil, "", err
	}

	token, err := util.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			logger.Warn("Login failed", map[string]interface{}{
				"email": email,
			})
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed", map[string]interface{}{
			"email": email,
		})
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, token, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies upd to the actor's own record. Only an admin may
// change a role.
func (s *authService) UpdateProfile(ctx context.Context, actor model.Identity, upd ProfileUpdate) (*model.User, error) {
	user, err := s.GetProfile(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if upd.Role != nil && *upd.Role != user.Role && !actor.HasRole(model.RoleAdmin) {
		logger.Warn("Role change rejected", map[string]interface{}{
			"user_id":        actor.UserID,
			"current_role":   user.Role,
			"requested_role": *upd.Role,
		})
		return nil, ErrRoleChangeForbidden
	}

	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.Address != nil {
		user.Address = *upd.Address
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	if upd.Password != nil {
		hash, err := util.HashPassword(*upd.Password, s.bcryptCost)
		if err != nil {
			logger.Error("Failed to hash password", err)
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists.Wrap(err)
		}
		return nil, err
	}

	logger.Info("Profile updated", map[string]interface{}{
		"user_id":          user.ID,
		"password_changed": upd.Password != nil,
	})
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, currentPassword) {
		logger.Warn("Password change rejected", map[string]interface{}{
			"user_id": userID,
		})
		return ErrIncorrectPassword
	}

	hash, err := util.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return err
	}
	user.PasswordHash = hash

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// Logout revokes token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, token string) error {
	if s.revoker == nil {
		logger.Info("Token revocation disabled, logout acknowledged without revoking")
		return nil
	}

	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		// already unusable
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.revoker.Revoke(ctx, token, ttl); err != nil {
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}
