package handlers

import (
	"strconv"

	"github.com/anasyaks/arewabites/internal/media"
	"github.com/anasyaks/arewabites/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdHandler serves the public ad feed and the admin-only ad CRUD.
type AdHandler struct {
	DB       *gorm.DB
	Uploader media.Uploader
	Log      *zap.Logger
}

func NewAdHandler(db *gorm.DB, uploader media.Uploader, log *zap.Logger) *AdHandler {
	return &AdHandler{DB: db, Uploader: uploader, Log: log}
}

// AdRequest defines the multipart payload for creating or editing an ad.
type AdRequest struct {
	Title    string `json:"title" form:"title"`
	Content  string `json:"content" form:"content"`
	LinkURL  string `json:"link_url" form:"link_url"`
	IsActive bool   `json:"is_active" form:"is_active"`
}

func (r *AdRequest) validate() []models.ErrorDetail {
	var errs []models.ErrorDetail
	if l := len(r.Title); l < 2 || l > 100 {
		errs = append(errs, models.ErrorDetail{Code: "invalid", Field: "title",
			Message: "Title must be between 2 and 100 characters"})
	}
	if r.Content == "" {
		errs = append(errs, models.ErrorDetail{Code: "invalid", Field: "content",
			Message: "Content is required"})
	}
	return errs
}

// ListActiveAds - GET /api/ads
// Visibility is gated solely by the active flag; ads have no time window.
func (h *AdHandler) ListActiveAds(c *fiber.Ctx) error {
	var ads []models.Ad
	if err := h.DB.Where("is_active = ?", true).Order("date_posted desc").Find(&ads).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch ads"})
	}
	return c.JSON(fiber.Map{"data": ads})
}

// CreateAd - POST /api/admin/ads
func (h *AdHandler) CreateAd(c *fiber.Ctx) error {
	var req AdRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Validation failed", models.ValidationErrors{Errors: errs}))
	}

	mediaURL := ""
	mediaType := ""
	if file, err := c.FormFile("media"); err == nil && file != nil {
		mediaURL, err = h.Uploader.Upload(c.Context(), file, "ads")
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Could not upload media"})
		}
		mediaType = media.TypeFromFilename(file.Filename)
	}

	ad := models.Ad{
		Title:     req.Title,
		Content:   req.Content,
		MediaURL:  mediaURL,
		MediaType: mediaType,
		LinkURL:   req.LinkURL,
		IsActive:  req.IsActive,
	}
	if err := h.DB.Create(&ad).Error; err != nil {
		h.Log.Error("could not create ad", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create ad"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Ad created successfully!", "data": ad})
}

// UpdateAd - PUT /api/admin/ads/:id
func (h *AdHandler) UpdateAd(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	var ad models.Ad
	if err := h.DB.First(&ad, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ad not found"})
	}

	var req AdRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Validation failed", models.ValidationErrors{Errors: errs}))
	}

	if file, err := c.FormFile("media"); err == nil && file != nil {
		mediaURL, err := h.Uploader.Upload(c.Context(), file, "ads")
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Could not upload media"})
		}
		ad.MediaURL = mediaURL
		ad.MediaType = media.TypeFromFilename(file.Filename)
	}

	ad.Title = req.Title
	ad.Content = req.Content
	ad.LinkURL = req.LinkURL
	ad.IsActive = req.IsActive

	if err := h.DB.Save(&ad).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update ad"})
	}
	return c.JSON(fiber.Map{"message": "Ad updated successfully!", "data": ad})
}

// DeleteAd - DELETE /api/admin/ads/:id
func (h *AdHandler) DeleteAd(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	var ad models.Ad
	if err := h.DB.First(&ad, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ad not found"})
	}

	if err := h.DB.Delete(&ad).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete ad"})
	}
	return c.JSON(fiber.Map{"message": "Ad deleted successfully!"})
}

// ToggleAdStatus - POST /api/admin/ads/:id/toggle
func (h *AdHandler) ToggleAdStatus(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	var ad models.Ad
	if err := h.DB.First(&ad, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ad not found"})
	}

	if err := h.DB.Model(&ad).Update("is_active", !ad.IsActive).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update ad status"})
	}
	return c.JSON(fiber.Map{"message": "Ad status updated successfully!", "data": ad})
}
