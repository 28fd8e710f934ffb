// middleware/auth.go
package middleware

import (
	"os"
	"strings"
	"time"

	"taskflow/database"
	"taskflow/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWTSecret returns the access-token signing secret.
func JWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "taskflow-secret-change-in-production"
	}
	return secret
}

// JWTRefreshSecret returns the refresh-token signing secret.
func JWTRefreshSecret() string {
	secret := os.Getenv("JWT_REFRESH_SECRET")
	if secret == "" {
		secret = "taskflow-refresh-secret-change-in-production"
	}
	return secret
}

func parseBearer(authHeader string) (string, bool) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func verifyToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(401, "Invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.NewError(401, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.NewError(401, "Invalid token claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, fiber.NewError(401, "Token expired")
	}

	return claims, nil
}

// VerifyRefreshToken validates a refresh token and returns the user id.
func VerifyRefreshToken(tokenString string) (uint, error) {
	claims, err := verifyToken(tokenString, JWTRefreshSecret())
	if err != nil {
		return 0, err
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fiber.NewError(401, "Invalid token claims")
	}
	return uint(userID), nil
}

func authenticate(c *fiber.Ctx, tokenString string) error {
	claims, err := verifyToken(tokenString, JWTSecret())
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"message": "Not authorized, token failed"})
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"message": "Invalid token claims"})
	}

	var user models.User
	if err := database.GetDB().First(&user, uint(userID)).Error; err != nil {
		return c.Status(401).JSON(fiber.Map{"message": "Not authorized, user not found"})
	}

	c.Locals("userId", user.ID)
	c.Locals("user", &user)

	return c.Next()
}

// AuthMiddleware validates the bearer token and loads the user into
// request locals.
func AuthMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(401).JSON(fiber.Map{"message": "Not authorized, no token"})
	}

	tokenString, ok := parseBearer(authHeader)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"message": "Invalid authorization header format"})
	}

	return authenticate(c, tokenString)
}

// WebSocketAuthMiddleware validates the token for websocket upgrades.
// Browsers cannot set headers on a WebSocket handshake, so a token
// query parameter is accepted as a fallback.
func WebSocketAuthMiddleware(c *fiber.Ctx) error {
	var tokenString string

	if authHeader := c.Get("Authorization"); authHeader != "" {
		if t, ok := parseBearer(authHeader); ok {
			tokenString = t
		}
	}
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		return c.Status(401).JSON(fiber.Map{"message": "Not authorized, no token"})
	}

	return authenticate(c, tokenString)
}

// GetUserID returns the authenticated user's id from locals.
func GetUserID(c *fiber.Ctx) (uint, error) {
	userID := c.Locals("userId")
	if userID == nil {
		return 0, fiber.NewError(401, "User not authenticated")
	}

	if id, ok := userID.(uint); ok {
		return id, nil
	}
	if id, ok := userID.(float64); ok {
		return uint(id), nil
	}

	return 0, fiber.NewError(401, "Invalid user ID format")
}

// CurrentUser returns the authenticated user loaded by AuthMiddleware.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals("user").(*models.User)
	if !ok || user == nil {
		return nil, fiber.NewError(401, "User not authenticated")
	}
	return user, nil
}
