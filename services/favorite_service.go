package services

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"team-match-system/models"
)

// favoriteStore persists favorite entries. Split from the service so the
// optimistic-update discipline is testable without a database.
type favoriteStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.FavoriteEntry, error)
	Save(ctx context.Context, entry *models.FavoriteEntry) error
	Delete(ctx context.Context, userID, contestID string) error
}

type gormFavoriteStore struct {
	db *gorm.DB
}

func NewGormFavoriteStore(db *gorm.DB) *gormFavoriteStore {
	return &gormFavoriteStore{db: db}
}

func (s *gormFavoriteStore) ListByUser(ctx context.Context, userID string) ([]models.FavoriteEntry, error) {
	var entries []models.FavoriteEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (s *gormFavoriteStore) Save(ctx context.Context, entry *models.FavoriteEntry) error {
	// Re-adding an existing favorite is a no-op at the storage layer too.
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "contest_id"}},
			DoNothing: true,
		}).
		Create(entry).Error
}

func (s *gormFavoriteStore) Delete(ctx context.Context, userID, contestID string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND contest_id = ?", userID, contestID).
		Delete(&models.FavoriteEntry{}).Error
}

// FavoriteService is the per-user engagement store: an idempotent toggle set
// over contests with an optimistic in-memory cache in front of the database.
// It fails soft and never participates in invitation/application
// authorization.
type FavoriteService struct {
	mu    sync.Mutex
	cache map[string]map[string]models.FavoriteEntry // userID → contestID → entry
	store favoriteStore
}

func NewFavoriteService(store favoriteStore) *FavoriteService {
	return &FavoriteService{
		cache: make(map[string]map[string]models.FavoriteEntry),
		store: store,
	}
}

// Toggle flips a contest in the user's favorite set and reports the new
// liked state. The cache is updated optimistically before the store write;
// a failed write rolls the cache entry back so the next read reconciles
// with persisted truth.
func (f *FavoriteService) Toggle(ctx context.Context, userID string, entry models.FavoriteEntry) (bool, error) {
	if userID == "" || entry.ContestID == "" {
		return false, models.E(models.KindValidationFailure, "user and contest ids are required")
	}
	entry.UserID = userID

	f.mu.Lock()
	set, ok := f.cache[userID]
	if !ok {
		set = f.loadLocked(ctx, userID)
	}
	_, liked := set[entry.ContestID]
	if liked {
		delete(set, entry.ContestID)
	} else {
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		set[entry.ContestID] = entry
	}
	f.mu.Unlock()

	var err error
	if liked {
		err = f.store.Delete(ctx, userID, entry.ContestID)
	} else {
		err = f.store.Save(ctx, &entry)
	}
	if err != nil {
		// Roll the optimistic update back; the toast is the UI's problem.
		f.mu.Lock()
		if set, ok := f.cache[userID]; ok {
			if liked {
				set[entry.ContestID] = entry
			} else {
				delete(set, entry.ContestID)
			}
		}
		f.mu.Unlock()
		log.Printf("⚠️ [FAVORITES] persist failed for user=%s contest=%s: %v", userID, entry.ContestID, err)
		return liked, models.WrapE(models.KindNetworkFailure, err, "favorite not saved")
	}

	return !liked, nil
}

// IsFavorite reports membership from the cache, loading it on first touch.
func (f *FavoriteService) IsFavorite(ctx context.Context, userID, contestID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.cache[userID]
	if !ok {
		set = f.loadLocked(ctx, userID)
	}
	_, liked := set[contestID]
	return liked
}

// List returns the user's favorites, newest first.
func (f *FavoriteService) List(ctx context.Context, userID string) []models.FavoriteEntry {
	f.mu.Lock()
	set, ok := f.cache[userID]
	if !ok {
		set = f.loadLocked(ctx, userID)
	}
	entries := make([]models.FavoriteEntry, 0, len(set))
	for _, e := range set {
		entries = append(entries, e)
	}
	f.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}

// ResetUser drops one user's cached set. Hooked into session logout so
// switching sessions never mixes favorite sets.
func (f *FavoriteService) ResetUser(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cache, userID)
}

// loadLocked warms the cache from the store; on failure it starts empty and
// the next toggle retries the load.
func (f *FavoriteService) loadLocked(ctx context.Context, userID string) map[string]models.FavoriteEntry {
	set := make(map[string]models.FavoriteEntry)
	entries, err := f.store.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("⚠️ [FAVORITES] cache warm failed for user=%s: %v", userID, err)
	} else {
		for _, e := range entries {
			set[e.ContestID] = e
		}
		f.cache[userID] = set
	}
	return set
}
