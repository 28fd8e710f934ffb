// handlers/auth.go - Registration, login, refresh, profile
package handlers

import (
	"errors"
	"os"
	"strconv"
	"time"

	"taskflow/database"
	"taskflow/middleware"
	"taskflow/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UpdateProfileRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Avatar   *string `json:"avatar"`
	Password string  `json:"password"`
}

// AuthResponse is the wire shape the client stores after register,
// login and profile update.
type AuthResponse struct {
	ID           uint   `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func tokenTTL() time.Duration {
	if v := envDuration("JWT_EXPIRE_HOURS"); v > 0 {
		return v
	}
	return 30 * 24 * time.Hour
}

func refreshTokenTTL() time.Duration {
	if v := envDuration("JWT_REFRESH_EXPIRE_HOURS"); v > 0 {
		return v
	}
	return 7 * 24 * time.Hour
}

func signToken(userID uint, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func issueTokenPair(userID uint) (token, refreshToken string, err error) {
	token, err = signToken(userID, middleware.JWTSecret(), tokenTTL())
	if err != nil {
		return "", "", err
	}
	refreshToken, err = signToken(userID, middleware.JWTRefreshSecret(), refreshTokenTTL())
	if err != nil {
		return "", "", err
	}
	return token, refreshToken, nil
}

func authResponse(user *models.User) (*AuthResponse, error) {
	token, refreshToken, err := issueTokenPair(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Avatar:       user.Avatar,
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

// Register creates a user account
// POST /api/auth/register
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return badRequest(c, "Name, email and password required")
	}

	db := database.GetDB()

	var existing models.User
	err := db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return badRequest(c, "User already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return serviceError(c, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return serviceError(c, err)
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return badRequest(c, "User already exists")
		}
		return serviceError(c, err)
	}

	resp, err := authResponse(&user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(201).JSON(resp)
}

// Login authenticates a registered user
// POST /api/auth/login
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password required")
	}

	var user models.User
	if err := database.GetDB().Where("email = ?", req.Email).First(&user).Error; err != nil {
		return c.Status(401).JSON(fiber.Map{"message": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(401).JSON(fiber.Map{"message": "Invalid credentials"})
	}

	resp, err := authResponse(&user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// RefreshToken exchanges a valid refresh token for a new token pair
// POST /api/auth/refresh
func RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return c.Status(401).JSON(fiber.Map{"message": "Refresh token required"})
	}

	userID, err := middleware.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"message": "Invalid refresh token"})
	}

	var user models.User
	if err := database.GetDB().First(&user, userID).Error; err != nil {
		return c.Status(401).JSON(fiber.Map{"message": "Invalid refresh token"})
	}

	token, refreshToken, err := issueTokenPair(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"token":        token,
		"refreshToken": refreshToken,
	})
}

// GetMe returns the current user
// GET /api/auth/me
func GetMe(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"message": "User not authenticated"})
	}
	return c.JSON(user)
}

// UpdateProfile updates the current user and reissues tokens
// PUT /api/auth/profile
func UpdateProfile(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"message": "User not authenticated"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return serviceError(c, err)
		}
		updates["password"] = string(hash)
	}

	db := database.GetDB()
	if len(updates) > 0 {
		if err := db.Model(user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return badRequest(c, "Email already in use")
			}
			return serviceError(c, err)
		}
	}

	var updated models.User
	if err := db.First(&updated, user.ID).Error; err != nil {
		return serviceError(c, err)
	}

	resp, err := authResponse(&updated)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

func envDuration(key string) time.Duration {
	if val := os.Getenv(key); val != "" {
		if hours, err := strconv.Atoi(val); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return 0
}
