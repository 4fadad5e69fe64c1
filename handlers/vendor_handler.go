package handlers

import (
	"strconv"
	"time"

	"github.com/anasyaks/arewabites/internal/media"
	"github.com/anasyaks/arewabites/models"
	"github.com/anasyaks/arewabites/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type VendorHandler struct {
	DB       *gorm.DB
	Uploader media.Uploader
	Log      *zap.Logger
}

func NewVendorHandler(db *gorm.DB, uploader media.Uploader, log *zap.Logger) *VendorHandler {
	return &VendorHandler{DB: db, Uploader: uploader, Log: log}
}

// SnackWithRating pairs a snack with the average of its review ratings.
type SnackWithRating struct {
	models.Snack
	AverageRating *float64 `json:"average_rating"`
}

// UpdateProfileRequest defines the payload for profile edits. Email and
// password are deliberately not editable here.
type UpdateProfileRequest struct {
	BusinessName   string `json:"business_name" form:"business_name"`
	ContactName    string `json:"contact_name" form:"contact_name"`
	WhatsappNumber string `json:"whatsapp_number" form:"whatsapp_number"`
	LocationZone   string `json:"location_zone" form:"location_zone"`
	State          string `json:"state" form:"state"`
}

func (r *UpdateProfileRequest) validate() []models.ErrorDetail {
	var errs []models.ErrorDetail
	addErr := func(field, msg string) {
		errs = append(errs, models.ErrorDetail{Code: "invalid", Field: field, Message: msg})
	}
	if l := len(r.BusinessName); l < 2 || l > 100 {
		addErr("business_name", "Business name must be between 2 and 100 characters")
	}
	if l := len(r.ContactName); l < 2 || l > 100 {
		addErr("contact_name", "Contact name must be between 2 and 100 characters")
	}
	if !whatsappRe.MatchString(r.WhatsappNumber) {
		addErr("whatsapp_number", "Invalid WhatsApp number format")
	}
	if l := len(r.LocationZone); l < 2 || l > 100 {
		addErr("location_zone", "Location zone must be between 2 and 100 characters")
	}
	if l := len(r.State); l < 2 || l > 100 {
		addErr("state", "State must be between 2 and 100 characters")
	}
	return errs
}

// ListVendors - GET /api/vendors
func (h *VendorHandler) ListVendors(c *fiber.Ctx) error {
	var vendors []models.Vendor
	if err := h.DB.Order("business_name").Find(&vendors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch vendors"})
	}
	return c.JSON(fiber.Map{"data": vendors})
}

// SearchVendors - GET /api/vendors/search?business_name=&location_zone=
func (h *VendorHandler) SearchVendors(c *fiber.Ctx) error {
	query := h.DB.Model(&models.Vendor{})

	if name := c.Query("business_name"); name != "" {
		query = query.Where("lower(business_name) LIKE lower(?)", "%"+name+"%")
	}
	if zone := c.Query("location_zone"); zone != "" {
		query = query.Where("lower(location_zone) LIKE lower(?)", "%"+zone+"%")
	}

	var vendors []models.Vendor
	if err := query.Order("business_name").Find(&vendors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not search vendors"})
	}
	return c.JSON(fiber.Map{"data": vendors})
}

// VendorProfile - GET /api/vendors/:id
// Public profile: the vendor plus its fresh snacks with average ratings.
func (h *VendorHandler) VendorProfile(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	var vendor models.Vendor
	if err := h.DB.First(&vendor, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
	}

	snacks, err := h.freshSnacksWithRatings(vendor.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch snacks"})
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"vendor": vendor,
		"snacks": snacks,
	}})
}

// Dashboard - GET /api/dashboard (vendor-guarded)
// The dashboard applies the same visibility window as public listings, so
// vendors do not see their own stale items either.
func (h *VendorHandler) Dashboard(c *fiber.Ctx) error {
	vendorID, ok := utils.VendorID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var vendor models.Vendor
	if err := h.DB.First(&vendor, vendorID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please log in to access this page"})
	}

	snacks, err := h.freshSnacksWithRatings(vendor.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch snacks"})
	}

	// Referral count is derived on demand, never denormalized.
	var referralsCount int64
	if err := h.DB.Model(&models.Vendor{}).Where("referred_by = ?", vendor.ID).Count(&referralsCount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not count referrals"})
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"vendor":          vendor,
		"snacks":          snacks,
		"referrals_count": referralsCount,
	}})
}

// EditProfile - PUT /api/profile (vendor-guarded)
func (h *VendorHandler) EditProfile(c *fiber.Ctx) error {
	vendorID, ok := utils.VendorID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var vendor models.Vendor
	if err := h.DB.First(&vendor, vendorID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please log in to access this page"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Validation failed", models.ValidationErrors{Errors: errs}))
	}

	if file, err := c.FormFile("logo"); err == nil && file != nil {
		logoURL, err := h.Uploader.Upload(c.Context(), file, "logos")
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Could not upload logo"})
		}
		vendor.LogoURL = logoURL
	}

	vendor.BusinessName = req.BusinessName
	vendor.ContactName = req.ContactName
	vendor.WhatsappNumber = req.WhatsappNumber
	vendor.LocationZone = req.LocationZone
	vendor.State = req.State

	if err := h.DB.Save(&vendor).Error; err != nil {
		h.Log.Error("could not update profile", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update profile"})
	}

	return c.JSON(fiber.Map{"message": "Your profile has been updated!", "data": vendor})
}

func (h *VendorHandler) freshSnacksWithRatings(vendorID uint) ([]SnackWithRating, error) {
	var snacks []SnackWithRating
	err := h.DB.Model(&models.Snack{}).
		Select("snacks.*, AVG(reviews.rating) AS average_rating").
		Joins("LEFT JOIN reviews ON reviews.snack_id = snacks.id").
		Where("snacks.vendor_id = ?", vendorID).
		Scopes(models.Fresh(time.Now().UTC())).
		Group("snacks.id").
		Order("snacks.date_posted desc").
		Scan(&snacks).Error
	return snacks, err
}
