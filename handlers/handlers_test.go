package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anasyaks/arewabites/middleware"
	"github.com/anasyaks/arewabites/models"
	"github.com/anasyaks/arewabites/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

const testSecret = "test-secret"

// stubUploader stands in for the media backend.
type stubUploader struct {
	url string
	err error
}

func (s *stubUploader) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.url != "" {
		return s.url, nil
	}
	return "/uploads/" + folder + "/test-file", nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Vendor{}, &models.Snack{}, &models.Review{}, &models.Ad{}))
	return db
}

// newTestApp wires the API the same way main does, against a fresh
// in-memory database and a stub uploader.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop()
	uploader := &stubUploader{}

	authHandler := NewAuthHandler(db, uploader, testSecret, time.Hour, log)
	snackHandler := NewSnackHandler(db, uploader, log)
	reviewHandler := NewReviewHandler(db)
	vendorHandler := NewVendorHandler(db, uploader, log)
	adHandler := NewAdHandler(db, uploader, log)
	adminHandler := NewAdminHandler(db, log)

	vendorGuard := utils.AuthRequired(testSecret)
	adminGuard := middleware.AdminRequired(db)

	app := fiber.New()
	api := app.Group("/api")

	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/auth/me", vendorGuard, authHandler.Me)

	api.Get("/snacks", snackHandler.ListSnacks)
	api.Get("/search", snackHandler.SearchSnacks)
	api.Get("/snacks/:id", snackHandler.GetSnack)
	api.Get("/snacks/:id/reviews", reviewHandler.ListReviews)
	api.Post("/snacks/:id/reviews", reviewHandler.CreateReview)
	api.Get("/ads", adHandler.ListActiveAds)

	api.Get("/vendors", vendorHandler.ListVendors)
	api.Get("/vendors/search", vendorHandler.SearchVendors)
	api.Get("/vendors/:id", vendorHandler.VendorProfile)

	api.Post("/snacks", vendorGuard, snackHandler.AddSnack)
	api.Delete("/snacks/:id", vendorGuard, snackHandler.DeleteSnack)
	api.Get("/dashboard", vendorGuard, vendorHandler.Dashboard)
	api.Put("/profile", vendorGuard, vendorHandler.EditProfile)

	admin := api.Group("/admin", vendorGuard, adminGuard)
	admin.Get("/dashboard", adminHandler.Dashboard)
	admin.Put("/vendors/:id", adminHandler.UpdateVendor)
	admin.Delete("/vendors/:id", adminHandler.DeleteVendor)
	admin.Post("/vendors/:id/verify", adminHandler.VerifyVendor)
	admin.Put("/snacks/:id", adminHandler.UpdateSnack)
	admin.Delete("/snacks/:id", adminHandler.DeleteSnack)
	admin.Post("/ads", adHandler.CreateAd)
	admin.Put("/ads/:id", adHandler.UpdateAd)
	admin.Delete("/ads/:id", adHandler.DeleteAd)
	admin.Post("/ads/:id/toggle", adHandler.ToggleAdStatus)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, payload interface{}) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

var whatsappSeq uint64

func createVendor(t *testing.T, db *gorm.DB, businessName, email string) models.Vendor {
	t.Helper()
	hashed, err := utils.HashPassword("password123")
	require.NoError(t, err)
	vendor := models.Vendor{
		BusinessName:   businessName,
		ContactName:    "Test Contact",
		WhatsappNumber: fmt.Sprintf("23480%08d", atomic.AddUint64(&whatsappSeq, 1)),
		LocationZone:   "Kano Central",
		State:          "Kano",
		Email:          email,
		Password:       hashed,
	}
	require.NoError(t, db.Create(&vendor).Error)
	return vendor
}

func tokenFor(t *testing.T, vendor models.Vendor) string {
	t.Helper()
	token, err := utils.GenerateToken(vendor.ID, vendor.IsAdmin, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}
