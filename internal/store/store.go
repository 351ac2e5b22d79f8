// Package store is the records-access layer: CRUD against the database,
// live (user, date) subscriptions and the last-known-records cache.
package store

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"lifelog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlobDeleter removes a stored photo blob by its file name. Deletion is
// best effort: failures are logged by the store and never abort the
// record deletion.
type BlobDeleter interface {
	Delete(fileName string) error
}

// RecordsStore bridges handlers to the records table. Construct one per
// process with New and pass it by reference; it owns the subscription
// registry and the (user, date) → last-seen-records cache.
type RecordsStore struct {
	db    *gorm.DB
	blobs BlobDeleter

	mu    sync.Mutex
	cache map[string][]models.Record
	subs  map[string]*subscription
}

type subscription struct {
	key      string
	onUpdate func([]models.Record)
	done     bool
}

// New creates a RecordsStore. blobs may be nil if photo storage is
// disabled; cascading blob deletion is then skipped.
func New(db *gorm.DB, blobs BlobDeleter) *RecordsStore {
	return &RecordsStore{
		db:    db,
		blobs: blobs,
		cache: make(map[string][]models.Record),
		subs:  make(map[string]*subscription),
	}
}

func key(userID uint, date string) string {
	return fmt.Sprintf("%d|%s", userID, date)
}

// Subscribe opens a live query for (userID, date): onUpdate is invoked
// immediately with the current snapshot and again after every store write
// touching that key, records ordered by record time descending. At most
// one subscription per key is kept — subscribing again first cancels the
// previous one. The returned handle detaches the query; calling it more
// than once is harmless.
func (s *RecordsStore) Subscribe(userID uint, date string, onUpdate func([]models.Record)) (func(), error) {
	records, err := s.query(userID, date)
	if err != nil {
		return nil, err
	}

	k := key(userID, date)
	sub := &subscription{key: k, onUpdate: onUpdate}

	s.mu.Lock()
	if prev, ok := s.subs[k]; ok {
		prev.done = true
	}
	s.subs[k] = sub
	s.cache[k] = records
	s.mu.Unlock()

	onUpdate(records)

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub.done {
			return
		}
		sub.done = true
		if s.subs[k] == sub {
			delete(s.subs, k)
		}
	}
	return cancel, nil
}

// UnsubscribeAll tears down every active subscription and drops the
// cache. Used on logout.
func (s *RecordsStore) UnsubscribeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, sub := range s.subs {
		sub.done = true
		delete(s.subs, k)
	}
	s.cache = make(map[string][]models.Record)
}

// Latest returns the cached records of (userID, date), if any. The cache
// only serves synchronous last-known reads; the subscription stream is
// authoritative and may be fresher.
func (s *RecordsStore) Latest(userID uint, date string) ([]models.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, ok := s.cache[key(userID, date)]
	return records, ok
}

// List reads the records of (userID, date) from the database.
func (s *RecordsStore) List(userID uint, date string) ([]models.Record, error) {
	return s.query(userID, date)
}

// Get reads one record of a user by ID.
func (s *RecordsStore) Get(userID uint, id string) (*models.Record, error) {
	var r models.Record
	err := s.db.Preload("Photos").
		Where("id = ? AND user_id = ?", id, userID).
		First(&r).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("記録の取得に失敗しました: %w", err)
	}
	return &r, nil
}

// ErrNotFound is returned when a record does not exist or belongs to
// another user.
var ErrNotFound = gorm.ErrRecordNotFound

// Add creates a record. The store assigns ID and createdAt/updatedAt and
// files the record under the current local day when Date is empty.
func (s *RecordsStore) Add(r *models.Record) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Date == "" {
		r.Date = time.Now().Format("2006-01-02")
	}
	normalizeTime(r)

	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("記録の保存に失敗しました: %w", err)
	}
	s.invalidateAndNotify(r.UserID, r.Date)
	return nil
}

// Update replaces a record as a whole document: fields absent from r are
// cleared. The record must already belong to the user; createdAt is kept,
// updatedAt reassigned.
func (s *RecordsStore) Update(r *models.Record) error {
	old, err := s.Get(r.UserID, r.ID)
	if err != nil {
		return err
	}
	r.CreatedAt = old.CreatedAt
	normalizeTime(r)

	// blobs dropped by the replace are removed, best effort
	kept := make(map[string]struct{}, len(r.Photos))
	for i := range r.Photos {
		kept[r.Photos[i].FileName] = struct{}{}
	}
	var dropped []models.RecordPhoto
	for i := range old.Photos {
		if _, ok := kept[old.Photos[i].FileName]; !ok {
			dropped = append(dropped, old.Photos[i])
		}
	}
	s.deleteBlobs(dropped)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// full replace: drop old photo rows, then save the new document
		if err := tx.Where("record_id = ?", r.ID).Delete(&models.RecordPhoto{}).Error; err != nil {
			return err
		}
		return tx.Save(r).Error
	})
	if err != nil {
		return fmt.Errorf("記録の更新に失敗しました: %w", err)
	}

	s.invalidateAndNotify(r.UserID, old.Date)
	if r.Date != old.Date {
		s.invalidateAndNotify(r.UserID, r.Date)
	}
	return nil
}

// Delete removes a record. Attached photo blobs are deleted first, best
// effort; an individual blob failure is logged and does not abort.
func (s *RecordsStore) Delete(userID uint, id string) error {
	r, err := s.Get(userID, id)
	if err != nil {
		return err
	}

	s.deleteBlobs(r.Photos)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("record_id = ?", id).Delete(&models.RecordPhoto{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Record{}).Error
	})
	if err != nil {
		return fmt.Errorf("記録の削除に失敗しました: %w", err)
	}

	s.invalidateAndNotify(userID, r.Date)
	return nil
}

// InvalidateUser drops every cached list of the user and republishes all
// of their active subscriptions with fresh queries. Called after bulk
// writes that go around the store, such as restoring a backup.
func (s *RecordsStore) InvalidateUser(userID uint) {
	prefix := fmt.Sprintf("%d|", userID)

	s.mu.Lock()
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
		}
	}
	var dates []string
	for k := range s.subs {
		if strings.HasPrefix(k, prefix) {
			dates = append(dates, strings.TrimPrefix(k, prefix))
		}
	}
	s.mu.Unlock()

	for _, d := range dates {
		s.invalidateAndNotify(userID, d)
	}
}

// CountBefore counts the user's records dated strictly before the given
// day, without deleting anything.
func (s *RecordsStore) CountBefore(userID uint, before string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Record{}).
		Where("user_id = ? AND date < ?", userID, before).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("件数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// DeleteBefore removes every record of the user dated strictly before
// the given day, returning the number of deleted records. Blobs first,
// best effort, then the rows in one transaction.
func (s *RecordsStore) DeleteBefore(userID uint, before string) (int64, error) {
	var records []models.Record
	if err := s.db.Preload("Photos").
		Where("user_id = ? AND date < ?", userID, before).
		Find(&records).Error; err != nil {
		return 0, fmt.Errorf("削除対象の取得に失敗しました: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	for i := range records {
		s.deleteBlobs(records[i].Photos)
	}

	ids := make([]string, 0, len(records))
	dates := make(map[string]struct{})
	for i := range records {
		ids = append(ids, records[i].ID)
		dates[records[i].Date] = struct{}{}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("record_id IN ?", ids).Delete(&models.RecordPhoto{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND date < ?", userID, before).Delete(&models.Record{}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("一括削除に失敗しました: %w", err)
	}

	for d := range dates {
		s.invalidateAndNotify(userID, d)
	}
	return int64(len(records)), nil
}

// query loads records ordered by clock time descending; ties fall back
// to creation order (arrival order is unspecified by contract).
func (s *RecordsStore) query(userID uint, date string) ([]models.Record, error) {
	var records []models.Record
	err := s.db.Preload("Photos").
		Where("user_id = ? AND date = ?", userID, date).
		Order("record_time DESC, created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("記録の取得に失敗しました: %w", err)
	}
	return records, nil
}

// invalidateAndNotify drops the cached list for the key and, if a
// subscription is active, re-queries and republishes. The fresh result
// becomes the new cache entry.
func (s *RecordsStore) invalidateAndNotify(userID uint, date string) {
	k := key(userID, date)

	s.mu.Lock()
	delete(s.cache, k)
	sub, ok := s.subs[k]
	s.mu.Unlock()
	if !ok {
		return
	}

	records, err := s.query(userID, date)
	if err != nil {
		log.Printf("store: renotify %s: %v", k, err)
		return
	}

	s.mu.Lock()
	if sub.done {
		s.mu.Unlock()
		return
	}
	s.cache[k] = records
	s.mu.Unlock()

	sub.onUpdate(records)
}

func (s *RecordsStore) deleteBlobs(photos []models.RecordPhoto) {
	if s.blobs == nil {
		return
	}
	for _, p := range photos {
		if p.FileName == "" {
			continue
		}
		if err := s.blobs.Delete(p.FileName); err != nil {
			log.Printf("store: delete blob %s: %v", p.FileName, err)
		}
	}
}

// normalizeTime fills RecordTime from the variant-specific time field so
// that timeline ordering works uniformly.
func normalizeTime(r *models.Record) {
	if r.RecordTime != "" {
		return
	}
	switch r.Category {
	case models.CategorySleep:
		r.RecordTime = r.WakeTime
	case models.CategoryMovement:
		r.RecordTime = r.StartTime
	}
}
