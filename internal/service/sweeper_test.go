package service

import (
	"VaultDrop/model"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRunSweepRemovesExpiredOnly(t *testing.T) {
	store := setupTest(t)
	now := time.Now()

	var expired, live []*model.FileRecord
	for i := 0; i < 3; i++ {
		age := time.Duration(i+1) * time.Minute
		rec := seedRecord(t, store, func(r *model.FileRecord) {
			r.FileName = fmt.Sprintf("expired-%d.pdf", i)
			r.ExpiresAt = now.Add(-age)
		})
		expired = append(expired, rec)
	}
	for i := 0; i < 7; i++ {
		rec := seedRecord(t, store, func(r *model.FileRecord) {
			r.FileName = fmt.Sprintf("live-%d.pdf", i)
			r.ExpiresAt = now.Add(time.Hour)
			r.DownloadCount = i % 3
		})
		live = append(live, rec)
	}

	sweeper := NewSweeper(time.Hour)
	sweeper.Now = func() time.Time { return now }
	processed, failed := sweeper.RunSweep(context.Background())
	assert.Equal(t, 3, processed)
	assert.Equal(t, 0, failed)

	for _, rec := range expired {
		_, err := reloadRecord(t, rec.ID)
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
		assert.False(t, store.has(rec.Bucket, rec.StorageKey))
	}
	for _, rec := range live {
		loaded, err := reloadRecord(t, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.DownloadCount, loaded.DownloadCount)
		assert.WithinDuration(t, rec.ExpiresAt, loaded.ExpiresAt, time.Second)
		assert.True(t, store.has(rec.Bucket, rec.StorageKey))
	}
}

// Records expiring exactly at sweep time are collected.
func TestRunSweepBoundaryInclusive(t *testing.T) {
	store := setupTest(t)
	now := time.Now()
	rec := seedRecord(t, store, func(r *model.FileRecord) {
		r.ExpiresAt = now
	})

	sweeper := NewSweeper(time.Hour)
	sweeper.Now = func() time.Time { return now }
	processed, failed := sweeper.RunSweep(context.Background())
	assert.Equal(t, 1, processed)
	assert.Equal(t, 0, failed)

	_, err := reloadRecord(t, rec.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRunSweepEmpty(t *testing.T) {
	setupTest(t)

	sweeper := NewSweeper(time.Hour)
	processed, failed := sweeper.RunSweep(context.Background())
	assert.Equal(t, 0, processed)
	assert.Equal(t, 0, failed)
}

// A blob failure counts the record as failed but the metadata is still
// removed, so the next sweep does not see it again.
func TestRunSweepPartialFailure(t *testing.T) {
	store := setupTest(t)
	now := time.Now()
	rec := seedRecord(t, store, func(r *model.FileRecord) {
		r.ExpiresAt = now.Add(-time.Minute)
	})
	store.removeErr = errors.New("storage unavailable")

	sweeper := NewSweeper(time.Hour)
	sweeper.Now = func() time.Time { return now }
	processed, failed := sweeper.RunSweep(context.Background())
	assert.Equal(t, 0, processed)
	assert.Equal(t, 1, failed)

	_, err := reloadRecord(t, rec.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	processed, failed = sweeper.RunSweep(context.Background())
	assert.Equal(t, 0, processed)
	assert.Equal(t, 0, failed)
}

func TestSweeperStartStop(t *testing.T) {
	setupTest(t)

	sweeper := NewSweeper(10 * time.Millisecond)
	sweeper.Start()
	time.Sleep(30 * time.Millisecond)
	sweeper.Stop()
}
