package sweeper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anasyaks/arewabites/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Vendor{}, &models.Snack{}, &models.Review{}))
	return db
}

func createVendor(t *testing.T, db *gorm.DB) models.Vendor {
	t.Helper()
	vendor := models.Vendor{
		BusinessName:   "Hausa Delights",
		ContactName:    "Aisha Bello",
		WhatsappNumber: "2348012345678",
		LocationZone:   "Kano Central",
		State:          "Kano",
		Email:          "aisha@example.com",
		Password:       "hashed",
	}
	require.NoError(t, db.Create(&vendor).Error)
	return vendor
}

func TestSweepDeletesStaleSnacksOnly(t *testing.T) {
	db := newTestDB(t)
	vendor := createVendor(t, db)
	now := time.Now().UTC()

	fresh := models.Snack{VendorID: vendor.ID, Name: "Fresh", Description: "d", Price: 500.0,
		DatePosted: now.Add(-23 * time.Hour)}
	stale := models.Snack{VendorID: vendor.ID, Name: "Stale", Description: "d", Price: 500.0,
		DatePosted: now.Add(-25 * time.Hour)}
	require.NoError(t, db.Create(&fresh).Error)
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Create(&models.Review{
		SnackID: stale.ID, Rating: 4, Comment: "Good while it lasted.",
	}).Error)

	s := New(db, t.TempDir(), zap.NewNop())

	deleted, err := s.Sweep(now)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	var count int64
	db.Model(&models.Snack{}).Count(&count)
	assert.Equal(t, int64(1), count)
	db.Model(&models.Snack{}).Where("name = ?", "Fresh").Count(&count)
	assert.Equal(t, int64(1), count)

	// Reviews of swept snacks go with them.
	db.Model(&models.Review{}).Where("snack_id = ?", stale.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// Re-running is a no-op.
	deleted, err = s.Sweep(now)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}

func TestSweepRemovesLocalMediaFiles(t *testing.T) {
	db := newTestDB(t)
	vendor := createVendor(t, db)
	now := time.Now().UTC()
	mediaDir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(mediaDir, "snack_media"), 0o755))
	mediaPath := filepath.Join(mediaDir, "snack_media", "stale.jpg")
	require.NoError(t, os.WriteFile(mediaPath, []byte("jpeg"), 0o644))

	withFile := models.Snack{VendorID: vendor.ID, Name: "With File", Description: "d", Price: 500.0,
		MediaURL: "/uploads/snack_media/stale.jpg", DatePosted: now.Add(-25 * time.Hour)}
	remote := models.Snack{VendorID: vendor.ID, Name: "Remote", Description: "d", Price: 500.0,
		MediaURL: "https://res.cloudinary.com/demo/image/upload/x.jpg", DatePosted: now.Add(-25 * time.Hour)}
	missing := models.Snack{VendorID: vendor.ID, Name: "Missing File", Description: "d", Price: 500.0,
		MediaURL: "/uploads/snack_media/already-gone.jpg", DatePosted: now.Add(-25 * time.Hour)}
	require.NoError(t, db.Create(&withFile).Error)
	require.NoError(t, db.Create(&remote).Error)
	require.NoError(t, db.Create(&missing).Error)

	s := New(db, mediaDir, zap.NewNop())

	// Absent files are skipped silently; remote URLs are left alone.
	deleted, err := s.Sweep(now)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	_, statErr := os.Stat(mediaPath)
	assert.True(t, os.IsNotExist(statErr), "local media file must be removed")

	var count int64
	db.Model(&models.Snack{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSweepBoundary(t *testing.T) {
	db := newTestDB(t)
	vendor := createVendor(t, db)
	now := time.Now().UTC()

	// Posted exactly at the window edge: hidden from listings but not yet
	// swept; the next run picks it up.
	edge := models.Snack{VendorID: vendor.ID, Name: "Edge", Description: "d", Price: 500.0,
		DatePosted: now.Add(-models.VisibilityWindow)}
	require.NoError(t, db.Create(&edge).Error)

	s := New(db, t.TempDir(), zap.NewNop())
	deleted, err := s.Sweep(now)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)

	deleted, err = s.Sweep(now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
}
