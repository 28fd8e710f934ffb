// services/cleanup.go - Background housekeeping
package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"taskflow/database"
	"taskflow/models"
)

// CleanupService periodically deletes settled (accepted/rejected)
// invitations after a retention window. Pending invitations are never
// touched.
type CleanupService struct {
	retention time.Duration
	interval  time.Duration
	stop      chan struct{}
	done      chan struct{}
}

var cleanupService *CleanupService

// InitCleanupService initializes and starts the singleton cleanup service.
func InitCleanupService() {
	retentionDays := envInt("INVITE_RETENTION_DAYS", 30)
	intervalHours := envInt("CLEANUP_INTERVAL_HOURS", 24)

	cleanupService = &CleanupService{
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		interval:  time.Duration(intervalHours) * time.Hour,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go cleanupService.run()
}

// GetCleanupService returns the initialized cleanup service.
func GetCleanupService() *CleanupService {
	return cleanupService
}

func (s *CleanupService) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.CleanupSettledInvites(); err != nil {
				log.Printf("Invitation cleanup failed: %v", err)
			}
		case <-s.stop:
			return
		}
	}
}

// Stop shuts the background worker down and waits for it to exit.
func (s *CleanupService) Stop() {
	close(s.stop)
	<-s.done
}

// CleanupSettledInvites deletes accepted/rejected invitations older
// than the retention window.
func (s *CleanupService) CleanupSettledInvites() error {
	db := database.GetDB()
	cutoff := time.Now().Add(-s.retention)

	result := db.Where("status IN ? AND updated_at < ?",
		[]models.InviteStatus{models.InviteStatusAccepted, models.InviteStatusRejected},
		cutoff).
		Delete(&models.Invitation{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("✅ Cleaned up %d settled invitations", result.RowsAffected)
	}
	return nil
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return def
}
