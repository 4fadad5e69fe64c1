// Package sweeper physically removes snacks that have aged out of the
// 24 hour visibility window. Listings hide stale rows at read time; this
// job is what actually deletes them, together with any locally stored
// media files.
package sweeper

import (
	"os"
	"time"

	"github.com/anasyaks/arewabites/internal/media"
	"github.com/anasyaks/arewabites/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Sweeper struct {
	DB       *gorm.DB
	MediaDir string
	Log      *zap.Logger
}

func New(db *gorm.DB, mediaDir string, log *zap.Logger) *Sweeper {
	return &Sweeper{DB: db, MediaDir: mediaDir, Log: log}
}

// Sweep deletes every snack posted more than the visibility window before
// now. Local media files are unlinked first (absent files are skipped);
// row deletions commit once per run. Safe to re-run: already swept rows
// are simply absent.
func (s *Sweeper) Sweep(now time.Time) (int, error) {
	cutoff := now.Add(-models.VisibilityWindow)

	var stale []models.Snack
	if err := s.DB.Where("date_posted < ?", cutoff).Find(&stale).Error; err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for i := range stale {
			if p, ok := media.LocalPath(s.MediaDir, stale[i].MediaURL); ok {
				if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
					s.Log.Warn("could not remove media file",
						zap.String("path", p), zap.Error(err))
				}
			}
			if err := tx.Delete(&stale[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.Log.Info("cleaned up old snacks", zap.Int("count", len(stale)))
	return len(stale), nil
}

// Schedule registers the sweep on the cron runner.
func (s *Sweeper) Schedule(c *cron.Cron, spec string) error {
	_, err := c.AddFunc(spec, func() {
		if _, err := s.Sweep(time.Now().UTC()); err != nil {
			s.Log.Error("snack sweep failed", zap.Error(err))
		}
	})
	return err
}
