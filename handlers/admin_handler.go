package handlers

import (
	"strconv"

	"github.com/anasyaks/arewabites/internal/authz"
	"github.com/anasyaks/arewabites/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminHandler covers the admin surface: vendor management, snack
// management and the dashboard. Every route is admin-guarded.
type AdminHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewAdminHandler(db *gorm.DB, log *zap.Logger) *AdminHandler {
	return &AdminHandler{DB: db, Log: log}
}

func currentVendor(c *fiber.Ctx) (models.Vendor, bool) {
	v, ok := c.Locals("current_vendor").(models.Vendor)
	return v, ok
}

// Dashboard - GET /api/admin/dashboard
// Unlike public listings, the admin sees every snack, stale ones included.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	var vendors []models.Vendor
	if err := h.DB.Order("business_name").Find(&vendors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch vendors"})
	}

	var snacks []models.Snack
	if err := h.DB.Order("date_posted desc").Find(&snacks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch snacks"})
	}

	var ads []models.Ad
	if err := h.DB.Order("date_posted desc").Find(&ads).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch ads"})
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"vendors": vendors,
		"snacks":  snacks,
		"ads":     ads,
	}})
}

// UpdateVendorRequest defines the admin vendor-edit payload. Admins may
// also flip the role flags.
type UpdateVendorRequest struct {
	BusinessName   string `json:"business_name" form:"business_name"`
	ContactName    string `json:"contact_name" form:"contact_name"`
	WhatsappNumber string `json:"whatsapp_number" form:"whatsapp_number"`
	LocationZone   string `json:"location_zone" form:"location_zone"`
	State          string `json:"state" form:"state"`
	Email          string `json:"email" form:"email"`
	IsVerified     bool   `json:"is_verified" form:"is_verified"`
	IsAdmin        bool   `json:"is_admin" form:"is_admin"`
}

// UpdateVendor - PUT /api/admin/vendors/:id
func (h *AdminHandler) UpdateVendor(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	var vendor models.Vendor
	if err := h.DB.First(&vendor, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
	}

	var req UpdateVendorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	vendor.BusinessName = req.BusinessName
	vendor.ContactName = req.ContactName
	vendor.WhatsappNumber = req.WhatsappNumber
	vendor.LocationZone = req.LocationZone
	vendor.State = req.State
	vendor.Email = req.Email
	vendor.IsVerified = req.IsVerified
	vendor.IsAdmin = req.IsAdmin

	if err := h.DB.Save(&vendor).Error; err != nil {
		h.Log.Error("could not update vendor", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update vendor"})
	}
	return c.JSON(fiber.Map{"message": "Vendor details updated successfully!", "data": vendor})
}

// DeleteVendor - DELETE /api/admin/vendors/:id
// Deleting a vendor cascades to its snacks and their reviews. Admin
// accounts cannot be deleted.
func (h *AdminHandler) DeleteVendor(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	caller, ok := currentVendor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var vendor models.Vendor
	if err := h.DB.First(&vendor, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
	}

	if !authz.CanDeleteVendor(caller, vendor) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot delete this vendor."})
	}

	if err := h.DB.Delete(&vendor).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete vendor"})
	}
	return c.JSON(fiber.Map{"message": "Vendor \"" + vendor.BusinessName + "\" has been deleted!"})
}

// VerifyVendor - POST /api/admin/vendors/:id/verify
func (h *AdminHandler) VerifyVendor(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	var vendor models.Vendor
	if err := h.DB.First(&vendor, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
	}

	if err := h.DB.Model(&vendor).Update("is_verified", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not verify vendor"})
	}
	return c.JSON(fiber.Map{"message": "Vendor \"" + vendor.BusinessName + "\" has been verified!"})
}

// UpdateSnackRequest defines the admin snack-edit payload.
type UpdateSnackRequest struct {
	Name        string  `json:"name" form:"name"`
	Description string  `json:"description" form:"description"`
	Price       float64 `json:"price" form:"price"`
}

// UpdateSnack - PUT /api/admin/snacks/:id
func (h *AdminHandler) UpdateSnack(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	var snack models.Snack
	if err := h.DB.First(&snack, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Snack not found"})
	}

	var req UpdateSnackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if req.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price must be greater than zero"})
	}

	snack.Name = req.Name
	snack.Description = req.Description
	snack.Price = req.Price

	if err := h.DB.Save(&snack).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update snack"})
	}
	return c.JSON(fiber.Map{"message": "Snack details updated successfully!", "data": snack})
}

// DeleteSnack - DELETE /api/admin/snacks/:id
func (h *AdminHandler) DeleteSnack(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	var snack models.Snack
	if err := h.DB.First(&snack, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Snack not found"})
	}

	if err := h.DB.Delete(&snack).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete snack"})
	}
	return c.JSON(fiber.Map{"message": "Snack \"" + snack.Name + "\" has been deleted!"})
}
