package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/store-rating-backend/internal/app/model"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
	"github.com/ikkim/store-rating-backend/pkg/util"
)

const (
	identityKey = "identity"
	tokenKey    = "bearer_token"
)

var (
	ErrNoToken      = apperrors.Unauthorized("Not authorized, no token")
	ErrInvalidToken = apperrors.Unauthorized("Not authorized, invalid token")
	ErrForbidden    = apperrors.Forbidden("Not authorized for this operation")
)

// UserLookup resolves the current record of a token's user.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// RevocationChecker reports logged-out tokens.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type AuthMiddleware struct {
	jwtSecret   string
	users       UserLookup
	revocations RevocationChecker
}

// NewAuthMiddleware builds the authentication gates. revocations may be nil.
func NewAuthMiddleware(jwtSecret string, users UserLookup, revocations RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:   jwtSecret,
		users:       users,
		revocations: revocations,
	}
}

// Protect requires a valid bearer token for an existing user and attaches
// that user's current identity. Every failure after the token is found is
// reported as the same invalid-token error.
func (m *AuthMiddleware) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, present := bearerToken(c.GetHeader("Authorization"))
		if !present {
			log.Warn("Missing authorization token", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Abort(c, ErrNoToken)
			return
		}

		identity, err := m.resolve(c.Request.Context(), token)
		if err != nil {
			log.Warn("Token rejected", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			apperrors.Abort(c, ErrInvalidToken.Wrap(err))
			return
		}

		setIdentity(c, identity, token)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": identity.UserID,
			"role":    identity.Role,
		})
		c.Next()
	}
}

// OptionalAuthenticate attaches an identity when a usable token is present
// and otherwise lets the request continue as a guest.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, present := bearerToken(c.GetHeader("Authorization"))
		if !present {
			c.Next()
			return
		}

		identity, err := m.resolve(c.Request.Context(), token)
		if err != nil {
			log.Debug("Token validation failed - continuing as guest", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		setIdentity(c, identity, token)
		c.Next()
	}
}

// Authorize admits only identities holding one of roles. A request with no
// identity attached is rejected.
func (m *AuthMiddleware) Authorize(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		identity, ok := CurrentIdentity(c)
		if !ok || !identity.HasRole(roles...) {
			log.Warn("Insufficient permissions", map[string]interface{}{
				"user_id":        identity.UserID,
				"user_role":      identity.Role,
				"required_roles": roles,
				"path":           c.Request.URL.Path,
			})
			apperrors.Abort(c, ErrForbidden)
			return
		}

		c.Next()
	}
}

func (m *AuthMiddleware) resolve(ctx context.Context, token string) (model.Identity, error) {
	claims, err := util.ValidateToken(token, m.jwtSecret)
	if err != nil {
		return model.Identity{}, err
	}

	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(ctx, token)
		if err != nil {
			return model.Identity{}, err
		}
		if revoked {
			return model.Identity{}, util.ErrInvalidToken
		}
	}

	user, err := m.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return model.Identity{}, err
	}
	return user.Identity(), nil
}

// bearerToken extracts the token of a "Bearer <token>" header. present is
// false when there is nothing to verify at all.
func bearerToken(header string) (token string, present bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	scheme, rest, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		// present but unusable, fails verification
		return header, true
	}
	token = strings.TrimSpace(rest)
	return token, token != ""
}

func setIdentity(c *gin.Context, identity model.Identity, token string) {
	c.Set(identityKey, identity)
	c.Set(tokenKey, token)
}

// CurrentIdentity returns the identity attached by Protect or
// OptionalAuthenticate.
func CurrentIdentity(c *gin.Context) (model.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return model.Identity{}, false
	}
	identity, ok := v.(model.Identity)
	return identity, ok && identity.UserID != 0
}

// BearerToken returns the token that authenticated the request.
func BearerToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
