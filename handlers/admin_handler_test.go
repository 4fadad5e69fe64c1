package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/anasyaks/arewabites/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createAdmin(t *testing.T, db *gorm.DB) models.Vendor {
	t.Helper()
	admin := createVendor(t, db, "Arewa Bites Admin", "admin@arewabites.com")
	require.NoError(t, db.Model(&admin).Updates(map[string]interface{}{
		"is_admin": true, "is_verified": true,
	}).Error)
	admin.IsAdmin = true
	return admin
}

func TestAdminGuard(t *testing.T) {
	app, db := newTestApp(t)
	vendor := createVendor(t, db, "Plain Vendor", "vendor@example.com")

	// Anonymous callers are asked to log in.
	resp := doJSON(t, app, http.MethodGet, "/api/admin/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Authenticated non-admins are denied.
	resp = doJSON(t, app, http.MethodGet, "/api/admin/dashboard", tokenFor(t, vendor), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := createAdmin(t, db)
	resp = doJSON(t, app, http.MethodGet, "/api/admin/dashboard", tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminDashboardShowsStaleSnacks(t *testing.T) {
	app, db := newTestApp(t)
	vendor := createVendor(t, db, "Plain Vendor", "vendor@example.com")
	admin := createAdmin(t, db)
	createSnack(t, db, vendor.ID, "Stale", 30*time.Hour)

	resp := doJSON(t, app, http.MethodGet, "/api/admin/dashboard", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	snacks := data["snacks"].([]interface{})
	require.Len(t, snacks, 1, "admin sees rows outside the visibility window")
}

func TestVerifyVendor(t *testing.T) {
	app, db := newTestApp(t)
	vendor := createVendor(t, db, "Plain Vendor", "vendor@example.com")
	admin := createAdmin(t, db)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/vendors/1/verify", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Vendor
	require.NoError(t, db.First(&updated, vendor.ID).Error)
	assert.True(t, updated.IsVerified)
}

func TestDeleteVendorCascades(t *testing.T) {
	app, db := newTestApp(t)
	vendor := createVendor(t, db, "Plain Vendor", "vendor@example.com")
	admin := createAdmin(t, db)
	snack := createSnack(t, db, vendor.ID, "Kilishi", time.Hour)
	require.NoError(t, db.Create(&models.Review{
		SnackID: snack.ID, Rating: 5, Comment: "Great snack, fast delivery.",
	}).Error)

	resp := doJSON(t, app, http.MethodDelete, "/api/admin/vendors/1", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.Vendor{}).Where("id = ?", vendor.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.Snack{}).Where("vendor_id = ?", vendor.ID).Count(&count)
	assert.Equal(t, int64(0), count, "snacks must be cascade-deleted")
	db.Model(&models.Review{}).Where("snack_id = ?", snack.ID).Count(&count)
	assert.Equal(t, int64(0), count, "reviews must be cascade-deleted transitively")
}

func TestAdminAccountsCannotBeDeleted(t *testing.T) {
	app, db := newTestApp(t)
	admin := createAdmin(t, db)

	resp := doJSON(t, app, http.MethodDelete, "/api/admin/vendors/1", tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var count int64
	db.Model(&models.Vendor{}).Where("id = ?", admin.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAdminEditsSnack(t *testing.T) {
	app, db := newTestApp(t)
	vendor := createVendor(t, db, "Plain Vendor", "vendor@example.com")
	admin := createAdmin(t, db)
	snack := createSnack(t, db, vendor.ID, "Kilishi", time.Hour)

	resp := doJSON(t, app, http.MethodPut, "/api/admin/snacks/1", tokenFor(t, admin), map[string]interface{}{
		"name": "Kilishi Premium", "description": "Extra spicy batch", "price": 750.0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Snack
	require.NoError(t, db.First(&updated, snack.ID).Error)
	assert.Equal(t, "Kilishi Premium", updated.Name)
	assert.Equal(t, 750.0, updated.Price)
}

func TestAdLifecycle(t *testing.T) {
	app, db := newTestApp(t)
	admin := createAdmin(t, db)
	token := tokenFor(t, admin)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/ads", token, map[string]interface{}{
		"title": "Ramadan Special", "content": "Half price kilishi all week.", "link_url": "https://example.com", "is_active": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Active ads are public.
	resp = doJSON(t, app, http.MethodGet, "/api/ads", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Len(t, body["data"].([]interface{}), 1)

	// Toggling hides it; ads have no time window.
	resp = doJSON(t, app, http.MethodPost, "/api/admin/ads/1/toggle", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/ads", "", nil)
	body = decodeBody(t, resp)
	assert.Empty(t, body["data"])

	var ad models.Ad
	require.NoError(t, db.First(&ad, 1).Error)
	assert.False(t, ad.IsActive)

	resp = doJSON(t, app, http.MethodDelete, "/api/admin/ads/1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.Ad{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAdCreationRequiresAdmin(t *testing.T) {
	app, db := newTestApp(t)
	vendor := createVendor(t, db, "Plain Vendor", "vendor@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/admin/ads", tokenFor(t, vendor), map[string]interface{}{
		"title": "Sneaky Ad", "content": "Should not be allowed.",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
