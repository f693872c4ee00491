package service

import (
	"VaultDrop/config"
	"VaultDrop/internal/repo"
	"VaultDrop/internal/storage"
	"VaultDrop/model"
	"VaultDrop/utils"
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// fakeStore is an in-memory storage.Store used in place of MinIO.
type fakeStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	removed    []string
	removeErr  error
	presignErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) key(bucket, object string) string {
	return bucket + "/" + object
}

func (s *fakeStore) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts storage.PutOptions) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[s.key(bucket, object)] = data
	return nil
}

// RemoveObject mirrors the MinIO behavior: removing a missing object
// succeeds.
func (s *fakeStore) RemoveObject(ctx context.Context, bucket, object string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.objects, s.key(bucket, object))
	s.removed = append(s.removed, s.key(bucket, object))
	return nil
}

func (s *fakeStore) PresignedGetObjectWithResponse(ctx context.Context, bucket, object string, expiry time.Duration, params map[string]string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return "http://blobs.test/" + bucket + "/" + object, nil
}

func (s *fakeStore) has(bucket, object string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[s.key(bucket, object)]
	return ok
}

// setupTest wires an in-memory database and a fake blob store into the
// package globals for one test.
func setupTest(t *testing.T) *fakeStore {
	t.Helper()

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        ":memory:",
		}),
		&gorm.Config{},
	)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.FileRecord{}, &model.NotifyTask{}))

	store := newFakeStore()
	prevDb, prevStore := repo.Db, storage.Default
	prevConfig := config.AppConfig
	repo.Db = db
	storage.Default = store
	config.AppConfig.AppBaseURL = "http://localhost:8000"
	config.AppConfig.BucketName = "vaultdrop-test"
	config.AppConfig.DefaultTTLHours = 24
	config.AppConfig.DefaultDownloadLimit = 5
	config.AppConfig.OtpTTL = 10 * time.Minute
	config.AppConfig.PresignExpiry = 15 * time.Minute

	t.Cleanup(func() {
		repo.Db = prevDb
		storage.Default = prevStore
		config.AppConfig = prevConfig
		_ = sqlDB.Close()
	})
	return store
}

// seedRecord creates a record and its backing blob.
func seedRecord(t *testing.T, store *fakeStore, mutate func(*model.FileRecord)) *model.FileRecord {
	t.Helper()

	id := utils.GetToken()
	rec := &model.FileRecord{
		ID:            id,
		OwnerID:       1,
		Bucket:        config.AppConfig.BucketName,
		StorageKey:    "vaultdrop/raw/" + id,
		ResourceKind:  model.ResourceRaw,
		FileName:      "report.pdf",
		Size:          4,
		ExpiresAt:     time.Now().Add(time.Hour),
		DownloadLimit: 5,
	}
	if mutate != nil {
		mutate(rec)
	}
	require.NoError(t, store.PutObject(context.Background(), rec.Bucket, rec.StorageKey, bytes.NewReader([]byte("data")), 4, storage.PutOptions{}))
	require.NoError(t, repo.Db.Create(rec).Error)
	return rec
}

func reloadRecord(t *testing.T, id string) (*model.FileRecord, error) {
	t.Helper()
	var rec model.FileRecord
	err := repo.Db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
