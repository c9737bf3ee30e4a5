package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campdir/internal/apperr"
	"campdir/internal/models"
)

const localsUserKey = "user"

// UserLoader resolves the principal referenced by a verified token.
type UserLoader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// Auth verifies bearer/cookie tokens and enforces role membership.
type Auth struct {
	secret []byte
	users  UserLoader
}

func NewAuth(secret string, users UserLoader) *Auth {
	return &Auth{secret: []byte(secret), users: users}
}

// Protect verifies the JWT from the Authorization header or the token
// cookie, resolves the referenced user and attaches it to the request.
func (a *Auth) Protect(c *fiber.Ctx) error {
	tokenString := ""
	if header := c.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		tokenString = strings.TrimPrefix(header, "Bearer ")
	}
	if tokenString == "" {
		tokenString = c.Cookies("token")
	}
	if tokenString == "" {
		return apperr.Unauthorized("Not authorized to access this route")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return apperr.Unauthorized("Not authorized to access this route")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return apperr.Unauthorized("Invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return apperr.Unauthorized("Invalid token payload")
	}
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.Unauthorized("Invalid token payload")
	}

	user, err := a.users.GetByID(c.Context(), objID)
	if err != nil {
		return apperr.Unauthorized("Not authorized to access this route")
	}

	c.Locals(localsUserKey, &user)
	return c.Next()
}

// Authorize allows only the listed roles past. Must run after Protect.
func (a *Auth) Authorize(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return apperr.Unauthorized("Not authorized to access this route")
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return apperr.Forbidden("User role '" + user.Role + "' is not authorized to access this route")
	}
}

// CurrentUser returns the principal Protect attached, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUserKey).(*models.User)
	return user
}
