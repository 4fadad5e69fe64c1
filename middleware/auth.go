package middleware

import (
	"errors"

	"github.com/anasyaks/arewabites/models"
	"github.com/anasyaks/arewabites/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminRequired is the admin guard. It must run after utils.AuthRequired:
// the resolved identity is loaded from the database and must carry the
// admin flag. The loaded vendor is stored in Locals for the handler.
func AdminRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, ok := utils.VendorID(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Please log in to access this page",
			})
		}

		var vendor models.Vendor
		if err := db.First(&vendor, vendorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Please log in to access this page",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not resolve account",
			})
		}
		if !vendor.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You do not have permission to access this page",
			})
		}

		c.Locals("current_vendor", vendor)
		return c.Next()
	}
}
