package handlers

import (
	"strconv"

	"github.com/anasyaks/arewabites/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReviewHandler struct {
	DB *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{DB: db}
}

// CreateReviewRequest defines the payload for reviewing a snack.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" form:"rating"`
	Comment string `json:"comment" form:"comment"`
}

func (r *CreateReviewRequest) validate() []models.ErrorDetail {
	var errs []models.ErrorDetail
	if r.Rating < 1 || r.Rating > 5 {
		errs = append(errs, models.ErrorDetail{Code: "invalid", Field: "rating",
			Message: "Rating must be between 1 and 5"})
	}
	if l := len(r.Comment); l < 10 || l > 500 {
		errs = append(errs, models.ErrorDetail{Code: "invalid", Field: "comment",
			Message: "Comment must be between 10 and 500 characters"})
	}
	return errs
}

// CreateReview - POST /api/snacks/:id/reviews
// Any visitor may review; no authentication required.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	var snack models.Snack
	if err := h.DB.First(&snack, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Snack not found"})
	}

	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Validation failed", models.ValidationErrors{Errors: errs}))
	}

	review := models.Review{
		SnackID: snack.ID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := h.DB.Create(&review).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not save review"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Thank you for your review!", "data": review})
}

// ListReviews - GET /api/snacks/:id/reviews
func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	var snack models.Snack
	if err := h.DB.First(&snack, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Snack not found"})
	}

	var reviews []models.Review
	if err := h.DB.Where("snack_id = ?", snack.ID).Order("date_posted desc").Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch reviews"})
	}
	return c.JSON(fiber.Map{"data": reviews})
}
