package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"madrasa/apperror"
	"madrasa/config"
	"madrasa/models"
)

// GenerateJWT mints a session token. Sessions are issued elsewhere; this serves tools and tests.
func GenerateJWT(userID uint, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"role":   string(role),
		"iat":    time.Now().Unix(),                     // issued at
		"exp":    time.Now().Add(24 * time.Hour).Unix(), // expiry 24h
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// JWTMiddleware is a middleware to check for valid JWT token in the request
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ErrorResponse(c, apperror.Unauthenticated(apperror.CodeUnauthenticated))
	}

	// The token should be prefixed with "Bearer "
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ErrorResponse(c, apperror.Unauthenticated(apperror.CodeInvalidToken))
	}
	tokenString := authHeader[len("Bearer "):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return ErrorResponse(c, apperror.Unauthenticated(apperror.CodeInvalidToken))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrorResponse(c, apperror.Unauthenticated(apperror.CodeInvalidToken))
	}
	// JWT numbers decode as float64
	userID, ok := claims["userId"].(float64)
	if !ok || userID <= 0 {
		return ErrorResponse(c, apperror.Unauthenticated(apperror.CodeInvalidToken))
	}

	c.Locals("userId", uint(userID))
	return c.Next()
}
