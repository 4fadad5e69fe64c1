package handlers

import (
	"errors"
	"regexp"
	"time"

	"github.com/anasyaks/arewabites/internal/media"
	"github.com/anasyaks/arewabites/models"
	"github.com/anasyaks/arewabites/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB        *gorm.DB
	Uploader  media.Uploader
	JWTSecret string
	JWTTTL    time.Duration
	Log       *zap.Logger
}

func NewAuthHandler(db *gorm.DB, uploader media.Uploader, jwtSecret string, jwtTTL time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{DB: db, Uploader: uploader, JWTSecret: jwtSecret, JWTTTL: jwtTTL, Log: log}
}

// RegisterRequest defines the payload for vendor registration. Sent as
// multipart form data so the logo can ride along.
type RegisterRequest struct {
	BusinessName    string `json:"business_name" form:"business_name"`
	ContactName     string `json:"contact_name" form:"contact_name"`
	WhatsappNumber  string `json:"whatsapp_number" form:"whatsapp_number"`
	LocationZone    string `json:"location_zone" form:"location_zone"`
	State           string `json:"state" form:"state"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	ReferralCode    string `json:"referral_code" form:"referral_code"`
}

// LoginRequest defines the payload for login
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

var (
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	whatsappRe = regexp.MustCompile(`^\d{10,20}$`)
)

func (r *RegisterRequest) validate() []models.ErrorDetail {
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
		addErr("whatsapp_number", "Invalid WhatsApp number format. Please include country code, e.g., 23480...")
	}
	if l := len(r.LocationZone); l < 2 || l > 100 {
		addErr("location_zone", "Location zone must be between 2 and 100 characters")
	}
	if l := len(r.State); l < 2 || l > 100 {
		addErr("state", "State must be between 2 and 100 characters")
	}
	if !emailRe.MatchString(r.Email) {
		addErr("email", "Invalid email address")
	}
	if r.Password == "" {
		addErr("password", "Password is required")
	}
	if r.Password != r.ConfirmPassword {
		addErr("confirm_password", "Passwords must match")
	}
	if len(r.ReferralCode) > 10 {
		addErr("referral_code", "Referral code is at most 10 characters")
	}
	return errs
}

// Register - POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if errs := req.validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Validation failed", models.ValidationErrors{Errors: errs}))
	}

	// Uniqueness checks surface as field-scoped validation errors.
	var dupErrs []models.ErrorDetail
	var count int64
	h.DB.Model(&models.Vendor{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		dupErrs = append(dupErrs, models.ErrorDetail{Code: "duplicate", Field: "email",
			Message: "That email is already registered. Please choose a different one."})
	}
	count = 0
	h.DB.Model(&models.Vendor{}).Where("business_name = ?", req.BusinessName).Count(&count)
	if count > 0 {
		dupErrs = append(dupErrs, models.ErrorDetail{Code: "duplicate", Field: "business_name",
			Message: "That business name is already taken. Please choose a different one."})
	}
	if len(dupErrs) > 0 {
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse("Validation failed", models.ValidationErrors{Errors: dupErrs}))
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not hash password"})
	}

	// No logo file is not an error: the model falls back to the default URL.
	logoURL := ""
	if file, err := c.FormFile("logo"); err == nil && file != nil {
		logoURL, err = h.Uploader.Upload(c.Context(), file, "logos")
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Could not upload logo"})
		}
	}

	// Invalid referral codes are silently ignored, not rejected.
	var referredBy *uint
	if req.ReferralCode != "" {
		var referrer models.Vendor
		if err := h.DB.Where("referral_code = ?", req.ReferralCode).First(&referrer).Error; err == nil {
			referredBy = &referrer.ID
		}
	}

	vendor := models.Vendor{
		BusinessName:   req.BusinessName,
		ContactName:    req.ContactName,
		WhatsappNumber: req.WhatsappNumber,
		LocationZone:   req.LocationZone,
		State:          req.State,
		Email:          req.Email,
		Password:       hashedPassword,
		LogoURL:        logoURL,
		ReferredBy:     referredBy,
	}

	if err := h.DB.Create(&vendor).Error; err != nil {
		h.Log.Error("could not create vendor", zap.Error(err))
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Vendor already exists"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Your account has been created! You can now log in.",
		"data":    vendor,
	})
}

// Login - POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	// Unknown email and wrong password fail identically so the endpoint
	// leaks no enumeration signal.
	var vendor models.Vendor
	if err := h.DB.Where("email = ?", req.Email).First(&vendor).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Login unsuccessful. Please check your email and password."})
	}
	if !utils.CheckPasswordHash(req.Password, vendor.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Login unsuccessful. Please check your email and password."})
	}

	token, err := utils.GenerateToken(vendor.ID, vendor.IsAdmin, h.JWTSecret, h.JWTTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not login"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"vendor": fiber.Map{
			"id":            vendor.ID,
			"business_name": vendor.BusinessName,
			"email":         vendor.Email,
			"is_admin":      vendor.IsAdmin,
			"is_verified":   vendor.IsVerified,
			"logo_url":      vendor.LogoURL,
		},
	})
}

// Me - GET /api/auth/me (vendor-guarded)
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	vendorID, _ := utils.VendorID(c)

	var vendor models.Vendor
	if err := h.DB.First(&vendor, vendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please log in to access this page"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch account"})
	}
	return c.JSON(fiber.Map{"data": vendor})
}
