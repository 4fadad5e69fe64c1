package handlers

import (
	"strconv"
	"time"

	"github.com/anasyaks/arewabites/internal/authz"
	"github.com/anasyaks/arewabites/internal/media"
	"github.com/anasyaks/arewabites/models"
	"github.com/anasyaks/arewabites/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SnackHandler struct {
	DB       *gorm.DB
	Uploader media.Uploader
	Log      *zap.Logger
}

func NewSnackHandler(db *gorm.DB, uploader media.Uploader, log *zap.Logger) *SnackHandler {
	return &SnackHandler{DB: db, Uploader: uploader, Log: log}
}

// AddSnackRequest defines the multipart payload for posting a snack.
type AddSnackRequest struct {
	Name        string  `json:"name" form:"name"`
	Description string  `json:"description" form:"description"`
	Price       float64 `json:"price" form:"price"`
}

func (r *AddSnackRequest) validate() []models.ErrorDetail {
	var errs []models.ErrorDetail
	if l := len(r.Name); l < 2 || l > 100 {
		errs = append(errs, models.ErrorDetail{Code: "invalid", Field: "name",
			Message: "Snack name must be between 2 and 100 characters"})
	}
	if r.Description == "" {
		errs = append(errs, models.ErrorDetail{Code: "invalid", Field: "description",
			Message: "Description is required"})
	}
	if r.Price <= 0 {
		errs = append(errs, models.ErrorDetail{Code: "invalid", Field: "price",
			Message: "Price must be greater than zero"})
	}
	return errs
}

// ListSnacks - GET /api/snacks
// Public listing: only snacks inside the visibility window, newest first.
// Rows older than the window may still exist until the sweeper runs, but
// they are never listed.
func (h *SnackHandler) ListSnacks(c *fiber.Ctx) error {
	var snacks []models.Snack
	err := h.DB.Preload("Vendor", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, business_name, location_zone, state, logo_url, is_verified, whatsapp_number")
	}).
		Scopes(models.Fresh(time.Now().UTC())).
		Order("snacks.date_posted desc").
		Find(&snacks).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch snacks"})
	}
	return c.JSON(fiber.Map{"data": snacks})
}

// SearchSnacks - GET /api/search?location_zone=&snack_type=
func (h *SnackHandler) SearchSnacks(c *fiber.Ctx) error {
	query := h.DB.Model(&models.Snack{}).
		Joins("JOIN vendors ON vendors.id = snacks.vendor_id").
		Scopes(models.Fresh(time.Now().UTC()))

	if zone := c.Query("location_zone"); zone != "" {
		query = query.Where("lower(vendors.location_zone) LIKE lower(?)", "%"+zone+"%")
	}
	if snackType := c.Query("snack_type"); snackType != "" {
		query = query.Where("lower(snacks.name) LIKE lower(?)", "%"+snackType+"%")
	}

	var snacks []models.Snack
	if err := query.Preload("Vendor", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, business_name, location_zone, state, logo_url, is_verified, whatsapp_number")
	}).Order("snacks.date_posted desc").Find(&snacks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not search snacks"})
	}
	return c.JSON(fiber.Map{"data": snacks})
}

// GetSnack - GET /api/snacks/:id
func (h *SnackHandler) GetSnack(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	var snack models.Snack
	if err := h.DB.Preload("Vendor", func(db *gorm.DB) *gorm.DB {
		return db.Select("id, business_name, location_zone, state, logo_url, is_verified, whatsapp_number")
	}).First(&snack, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Snack not found"})
	}
	return c.JSON(fiber.Map{"data": snack})
}

// AddSnack - POST /api/snacks (vendor-guarded)
func (h *SnackHandler) AddSnack(c *fiber.Ctx) error {
	vendorID, ok := utils.VendorID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var vendor models.Vendor
	if err := h.DB.First(&vendor, vendorID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please log in to access this page"})
	}

	var req AddSnackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Validation failed", models.ValidationErrors{Errors: errs}))
	}

	mediaURL := ""
	mediaType := models.MediaTypeImage
	if file, err := c.FormFile("media"); err == nil && file != nil {
		mediaURL, err = h.Uploader.Upload(c.Context(), file, "snack_media")
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Could not upload media"})
		}
		mediaType = media.TypeFromFilename(file.Filename)
	}

	snack := models.Snack{
		VendorID:    vendor.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		MediaURL:    mediaURL,
		MediaType:   mediaType,
	}
	if err := h.DB.Create(&snack).Error; err != nil {
		h.Log.Error("could not create snack", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not add snack"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Snack added successfully!", "data": snack})
}

// DeleteSnack - DELETE /api/snacks/:id (vendor-guarded + ownership)
func (h *SnackHandler) DeleteSnack(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	vendorID, ok := utils.VendorID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var caller models.Vendor
	if err := h.DB.First(&caller, vendorID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please log in to access this page"})
	}

	var snack models.Snack
	if err := h.DB.First(&snack, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Snack not found"})
	}

	if !authz.CanMutateSnack(caller, snack) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not have permission to delete this snack"})
	}

	if err := h.DB.Delete(&snack).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete snack"})
	}
	return c.JSON(fiber.Map{"message": "Snack deleted successfully."})
}
