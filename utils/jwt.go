package utils

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken issues the session token for an authenticated vendor. The
// token carries the single opaque identity reference (vendor_id) plus the
// admin flag.
func GenerateToken(vendorID uint, isAdmin bool, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"vendor_id": vendorID,
		"is_admin":  isAdmin,
		"exp":       time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// AuthRequired is the vendor guard: requests without a valid token are
// rejected with 401. On success the vendor id is stored in Locals.
//
// The token is read from the Authorization header, or from the "token"
// query parameter for websocket handshakes where headers cannot be set.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tokenString string

		authHeader := c.Get("Authorization")
		if authHeader != "" {
			fmt.Sscanf(authHeader, "Bearer %s", &tokenString)
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Please log in to access this page",
			})
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token is invalid",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		if exp, ok := claims["exp"].(float64); ok {
			if time.Now().Unix() > int64(exp) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Token has expired",
				})
			}
		}

		if vendorIDFloat, ok := claims["vendor_id"].(float64); ok {
			c.Locals("vendor_id", uint(vendorIDFloat))
		} else {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}
		if isAdmin, ok := claims["is_admin"].(bool); ok {
			c.Locals("is_admin", isAdmin)
		}

		return c.Next()
	}
}

// VendorID returns the authenticated vendor id placed in Locals by
// AuthRequired.
func VendorID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("vendor_id").(uint)
	return id, ok && id != 0
}
