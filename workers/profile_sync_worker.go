// workers/profile_sync_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"team-match-system/models"
	"team-match-system/services"
)

// ProfileSyncWorker mirrors directory-service profiles into the local
// directory_users table so teammate search stays local and cheap. The mirror
// is read-only derived data; the directory service remains authoritative.
type ProfileSyncWorker struct {
	db           *gorm.DB
	directory    *services.DirectoryClient
	serviceToken string
	interval     time.Duration
}

func NewProfileSyncWorker(db *gorm.DB, directory *services.DirectoryClient, serviceToken string) *ProfileSyncWorker {
	return &ProfileSyncWorker{
		db:           db,
		directory:    directory,
		serviceToken: serviceToken,
		interval:     1 * time.Minute,
	}
}

func (w *ProfileSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Profile Sync Worker (directory service → directory_users)…")
	go w.run(ctx)
}

func (w *ProfileSyncWorker) run(ctx context.Context) {
	// Initial backfill from the beginning of time.
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial profile sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.lastSyncTime()); err != nil {
				log.Printf("❌ Profile sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Profile Sync Worker stopped")
			return
		}
	}
}

// lastSyncTime is the most recent UpdatedAt in the local mirror, epoch when
// the table is empty.
func (w *ProfileSyncWorker) lastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM directory_users WHERE deleted_at IS NULL").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

func (w *ProfileSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	profiles, err := w.directory.ListUsers(ctx, w.serviceToken, since)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return nil
	}

	rows := make([]models.DirectoryUser, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, mirrorRow(p))
	}

	err = w.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "full_name", "bio", "profile_image_url", "is_public", "updated_at",
			}),
		}).
		Create(&rows).Error
	if err != nil {
		return err
	}

	log.Printf("[SYNC] 📡 Mirrored %d profile(s) since %s", len(rows), since.UTC().Format(time.RFC3339))
	return nil
}

func mirrorRow(p models.Profile) models.DirectoryUser {
	row := models.DirectoryUser{
		ExternalUserID: p.UserID,
		Username:       p.FullName, // directory listing carries no username; fall back below
		IsPublic:       p.IsPublic,
		UpdatedAt:      time.Now(),
	}
	if p.FullName != "" {
		fullName := p.FullName
		row.FullName = &fullName
	}
	if p.Bio != "" {
		bio := p.Bio
		row.Bio = &bio
	}
	if p.ProfileImageURL != "" {
		img := p.ProfileImageURL
		row.ProfileImageURL = &img
	}
	if row.Username == "" {
		row.Username = p.UserID
	}
	return row
}
