package middleware

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appauth "github.com/serhiib/registry/internal/app/auth"
	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/app/models/dto"
	"github.com/serhiib/registry/internal/pkg/auth"
)

// PrincipalKey is the gin context key the resolved principal is stored under
const PrincipalKey = "principal"

// AuthMiddleware extracts the caller's principal from the Authorization
// header. Two schemes are accepted: Basic carries a raw name/password pair
// that the gatekeeper verifies against the directory, Bearer carries a JWT
// whose claims are validated here.
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// RequirePrincipal parses the Authorization header into a principal and
// aborts with 401 when no usable credentials are present. The principal is
// NOT verified against the directory here; that happens inside the guarded
// operation, before any store is touched.
func (m *AuthMiddleware) RequirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		switch {
		case strings.HasPrefix(authHeader, "Basic "):
			creds, err := parseBasicCredentials(authHeader)
			if err != nil {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
				errorDetail = errorDetail.WithDetails("Malformed Basic credentials")
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
				return
			}
			c.Set(PrincipalKey, &appauth.Principal{Credentials: creds})

		default:
			tokenString, err := auth.ExtractBearerToken(authHeader)
			if err != nil {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
				errorDetail = errorDetail.WithDetails("Invalid token format")
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
				return
			}

			claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
			if err != nil {
				errorCode := dto.ErrorCodeInvalidToken
				errorDetails := "Invalid token"
				if errors.Is(err, auth.ErrExpiredToken) {
					errorCode = dto.ErrorCodeExpiredToken
					errorDetails = "Token has expired"
				}

				errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
				errorDetail = errorDetail.WithDetails(errorDetails)
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
				return
			}

			c.Set(PrincipalKey, &appauth.Principal{
				Identity: &models.Identity{
					ID:   claims.IdentityID,
					Name: claims.Name,
					Role: models.RoleType(claims.Role),
				},
			})
		}

		c.Next()
	}
}

// GetPrincipal returns the principal stored by RequirePrincipal
func GetPrincipal(c *gin.Context) *appauth.Principal {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*appauth.Principal)
	if !ok {
		return nil
	}
	return principal
}

// parseBasicCredentials decodes the base64 "name:password" payload of a
// Basic Authorization header
func parseBasicCredentials(authHeader string) (*models.Credentials, error) {
	payload := strings.TrimPrefix(authHeader, "Basic ")
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}

	name, password, found := strings.Cut(string(decoded), ":")
	if !found || name == "" {
		return nil, errors.New("malformed basic credentials")
	}

	return &models.Credentials{Name: name, Password: password}, nil
}
