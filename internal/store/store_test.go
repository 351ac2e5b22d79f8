package store_test

import (
	"path/filepath"
	"testing"

	"lifelog/internal/models"
	"lifelog/internal/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeBlobs records blob deletions instead of touching the filesystem.
type fakeBlobs struct {
	deleted []string
}

func (f *fakeBlobs) Delete(fileName string) error {
	f.deleted = append(f.deleted, fileName)
	return nil
}

func newTestStore(t *testing.T) (*store.RecordsStore, *fakeBlobs) {
	t.Helper()
	s, blobs, _ := newTestStoreDB(t)
	return s, blobs
}

func newTestStoreDB(t *testing.T) (*store.RecordsStore, *fakeBlobs, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Record{}, &models.RecordPhoto{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	blobs := &fakeBlobs{}
	return store.New(db, blobs), blobs, db
}

func int64Ptr(v int64) *int64 { return &v }

func TestSubscribeSnapshotAndUpdates(t *testing.T) {
	s, _ := newTestStore(t)

	var updates [][]models.Record
	cancel, err := s.Subscribe(1, "2026-03-01", func(records []models.Record) {
		updates = append(updates, records)
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	if len(updates) != 1 || len(updates[0]) != 0 {
		t.Fatalf("initial snapshot: got %d updates, want 1 empty snapshot", len(updates))
	}

	r := &models.Record{
		UserID:     1,
		Category:   models.CategoryExpense,
		Date:       "2026-03-01",
		RecordTime: "12:00",
		Amount:     int64Ptr(1200),
	}
	if err := s.Add(r); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if r.ID == "" {
		t.Error("Add must assign an ID")
	}

	if len(updates) != 2 {
		t.Fatalf("after Add: got %d updates, want 2", len(updates))
	}
	got := updates[1]
	if len(got) != 1 {
		t.Fatalf("after Add: snapshot has %d records, want 1", len(got))
	}
	// round trip: caller-supplied fields come back unchanged
	if got[0].Category != models.CategoryExpense || got[0].RecordTime != "12:00" || got[0].AmountValue() != 1200 {
		t.Errorf("round trip mismatch: %+v", got[0])
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("store must assign createdAt")
	}
}

func TestSubscribeOrdering(t *testing.T) {
	s, _ := newTestStore(t)

	times := []string{"08:00", "21:30", "12:15"}
	for _, tm := range times {
		if err := s.Add(&models.Record{
			UserID: 1, Category: models.CategoryInfo,
			Date: "2026-03-01", RecordTime: tm,
			InfoType: models.InfoTypeMemo,
		}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	var latest []models.Record
	cancel, err := s.Subscribe(1, "2026-03-01", func(records []models.Record) {
		latest = records
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	want := []string{"21:30", "12:15", "08:00"}
	for i, r := range latest {
		if r.RecordTime != want[i] {
			t.Errorf("records[%d].RecordTime = %q, want %q (descending)", i, r.RecordTime, want[i])
		}
	}
}

func TestSubscribeReplacesPrior(t *testing.T) {
	s, _ := newTestStore(t)

	firstCalls := 0
	_, err := s.Subscribe(1, "2026-03-01", func([]models.Record) { firstCalls++ })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	secondCalls := 0
	cancel, err := s.Subscribe(1, "2026-03-01", func([]models.Record) { secondCalls++ })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	if err := s.Add(&models.Record{UserID: 1, Category: models.CategoryInfo, Date: "2026-03-01"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if firstCalls != 1 {
		t.Errorf("replaced subscription got %d calls, want only its snapshot", firstCalls)
	}
	if secondCalls != 2 {
		t.Errorf("active subscription got %d calls, want 2", secondCalls)
	}
}

func TestCancelStopsUpdates(t *testing.T) {
	s, _ := newTestStore(t)

	calls := 0
	cancel, err := s.Subscribe(1, "2026-03-01", func([]models.Record) { calls++ })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	cancel()
	cancel() // double-cancel is harmless

	if err := s.Add(&models.Record{UserID: 1, Category: models.CategoryInfo, Date: "2026-03-01"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if calls != 1 {
		t.Errorf("cancelled subscription got %d calls, want 1", calls)
	}
}

func TestLatestCache(t *testing.T) {
	s, _ := newTestStore(t)

	if _, ok := s.Latest(1, "2026-03-01"); ok {
		t.Error("Latest before any subscription: ok = true, want false")
	}

	cancel, err := s.Subscribe(1, "2026-03-01", func([]models.Record) {})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	if _, ok := s.Latest(1, "2026-03-01"); !ok {
		t.Error("Latest after snapshot: ok = false, want cached records")
	}

	if err := s.Add(&models.Record{UserID: 1, Category: models.CategoryInfo, Date: "2026-03-01"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	records, ok := s.Latest(1, "2026-03-01")
	if !ok || len(records) != 1 {
		t.Errorf("Latest after write = (%d records, %v), want refreshed cache", len(records), ok)
	}
}

func TestUpdateFullReplace(t *testing.T) {
	s, _ := newTestStore(t)

	r := &models.Record{
		UserID: 1, Category: models.CategoryMeal, Date: "2026-03-01",
		RecordTime: "07:00", MealType: "朝食", Amount: int64Ptr(500),
	}
	if err := s.Add(r); err != nil {
		t.Fatalf("Add: %v", err)
	}
	created := r.CreatedAt

	replacement := &models.Record{
		ID: r.ID, UserID: 1, Category: models.CategoryMeal, Date: "2026-03-01",
		RecordTime: "07:30", MealType: "朝食", MealContent: "トースト",
	}
	if err := s.Update(replacement); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.Get(1, r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.RecordTime != "07:30" || got.MealContent != "トースト" {
		t.Errorf("updated record = %+v", got)
	}
	if got.Amount != nil {
		t.Error("full replace must drop fields absent from the replacement")
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("createdAt changed on update: %v → %v", created, got.CreatedAt)
	}
}

func TestUpdateDropsRemovedBlobs(t *testing.T) {
	s, blobs := newTestStore(t)

	r := &models.Record{
		UserID: 1, Category: models.CategoryMeal, Date: "2026-03-01",
		Photos: []models.RecordPhoto{
			{FileName: "meal-photos/1_a.jpg"},
			{FileName: "meal-photos/2_b.jpg"},
		},
	}
	if err := s.Add(r); err != nil {
		t.Fatalf("Add: %v", err)
	}

	replacement := &models.Record{
		ID: r.ID, UserID: 1, Category: models.CategoryMeal, Date: "2026-03-01",
		Photos: []models.RecordPhoto{
			{FileName: "meal-photos/1_a.jpg"},
		},
	}
	if err := s.Update(replacement); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(blobs.deleted) != 1 || blobs.deleted[0] != "meal-photos/2_b.jpg" {
		t.Errorf("deleted blobs = %v, want only the removed photo", blobs.deleted)
	}
}

func TestUpdateOtherUsersRecord(t *testing.T) {
	s, _ := newTestStore(t)

	r := &models.Record{UserID: 1, Category: models.CategoryInfo, Date: "2026-03-01"}
	if err := s.Add(r); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := s.Update(&models.Record{ID: r.ID, UserID: 2, Category: models.CategoryInfo, Date: "2026-03-01"})
	if err != store.ErrNotFound {
		t.Errorf("Update as another user: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteCascadesBlobs(t *testing.T) {
	s, blobs := newTestStore(t)

	r := &models.Record{
		UserID: 1, Category: models.CategoryMeal, Date: "2026-03-01",
		Photos: []models.RecordPhoto{
			{FileName: "meal-photos/1_a.jpg"},
			{FileName: "meal-photos/2_b.jpg"},
		},
	}
	if err := s.Add(r); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Delete(1, r.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(blobs.deleted) != 2 {
		t.Fatalf("deleted %d blobs, want 2: %v", len(blobs.deleted), blobs.deleted)
	}
	if _, err := s.Get(1, r.ID); err != store.ErrNotFound {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteBefore(t *testing.T) {
	s, blobs := newTestStore(t)

	dates := []string{"2026-01-10", "2026-02-10", "2026-03-10"}
	for _, d := range dates {
		if err := s.Add(&models.Record{
			UserID: 1, Category: models.CategoryExpense, Date: d,
			Photos: []models.RecordPhoto{{FileName: "expense-photos/" + d + ".jpg"}},
		}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	n, err := s.DeleteBefore(1, "2026-03-01")
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteBefore = %d, want 2", n)
	}
	if len(blobs.deleted) != 2 {
		t.Errorf("deleted %d blobs, want 2", len(blobs.deleted))
	}

	remaining, err := s.List(1, "2026-03-10")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("records after prune = %d, want 1", len(remaining))
	}
}

func TestUnsubscribeAll(t *testing.T) {
	s, _ := newTestStore(t)

	calls := 0
	if _, err := s.Subscribe(1, "2026-03-01", func([]models.Record) { calls++ }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	s.UnsubscribeAll()

	if err := s.Add(&models.Record{UserID: 1, Category: models.CategoryInfo, Date: "2026-03-01"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if calls != 1 {
		t.Errorf("subscription after UnsubscribeAll got %d calls, want 1", calls)
	}
	if _, ok := s.Latest(1, "2026-03-01"); ok {
		t.Error("cache must be dropped by UnsubscribeAll")
	}
}

func TestInvalidateUserAfterBulkWrite(t *testing.T) {
	s, _, db := newTestStoreDB(t)

	if err := s.Add(&models.Record{UserID: 1, Category: models.CategoryInfo, Date: "2026-03-01"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	var latest []models.Record
	cancel, err := s.Subscribe(1, "2026-03-01", func(records []models.Record) {
		latest = records
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()
	if len(latest) != 1 {
		t.Fatalf("snapshot has %d records, want 1", len(latest))
	}

	// 模拟备份恢复：绕过 store 直接改库
	if err := db.Where("user_id = ?", 1).Delete(&models.Record{}).Error; err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if err := db.Create(&models.Record{
		ID: "restored-1", UserID: 1, Category: models.CategoryExpense,
		Date: "2026-03-01", RecordTime: "09:00", Amount: int64Ptr(300),
	}).Error; err != nil {
		t.Fatalf("bulk insert: %v", err)
	}

	// 没有通知之前，订阅和缓存仍然是旧数据
	if cached, ok := s.Latest(1, "2026-03-01"); !ok || len(cached) != 1 || cached[0].Category != models.CategoryInfo {
		t.Fatalf("precondition: cache should still hold the old list")
	}

	s.InvalidateUser(1)

	if len(latest) != 1 || latest[0].ID != "restored-1" {
		t.Errorf("after InvalidateUser subscriber has %+v, want the restored record", latest)
	}
	cached, ok := s.Latest(1, "2026-03-01")
	if !ok || len(cached) != 1 || cached[0].ID != "restored-1" {
		t.Errorf("after InvalidateUser cache has %+v, want the restored record", cached)
	}

	// 其他用户的订阅不受影响
	otherCalls := 0
	cancel2, err := s.Subscribe(2, "2026-03-01", func([]models.Record) { otherCalls++ })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel2()
	s.InvalidateUser(1)
	if otherCalls != 1 {
		t.Errorf("user 2 subscription got %d calls, want 1", otherCalls)
	}
}
