package service

import (
	"VaultDrop/model"
	"VaultDrop/utils"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAttemptAccessNotFound(t *testing.T) {
	setupTest(t)

	result, err := AttemptAccess(context.Background(), "no-such-id", "", "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, AccessNotFound, result.Status)
}

// Single-download record: first attempt serves, then the record is gone.
func TestAttemptAccessSingleDownload(t *testing.T) {
	store := setupTest(t)
	rec := seedRecord(t, store, func(r *model.FileRecord) {
		r.DownloadLimit = 1
	})

	result, err := AttemptAccess(context.Background(), rec.ID, "", "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, AccessServed, result.Status)
	assert.NotEmpty(t, result.URL)
	assert.Equal(t, "report.pdf", result.FileName)

	_, err = reloadRecord(t, rec.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.False(t, store.has(rec.Bucket, rec.StorageKey))

	again, err := AttemptAccess(context.Background(), rec.ID, "", "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, AccessNotFound, again.Status)
}

func TestAttemptAccessWrongThenRightPassword(t *testing.T) {
	store := setupTest(t)
	rec := seedRecord(t, store, func(r *model.FileRecord) {
		r.PasswordHash = utils.HashSecret("secret")
	})

	result, err := AttemptAccess(context.Background(), rec.ID, "wrong", "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, AccessUnauthorized, result.Status)
	assert.Equal(t, ReasonPassword, result.Reason)

	loaded, err := reloadRecord(t, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.DownloadCount)

	result, err = AttemptAccess(context.Background(), rec.ID, "secret", "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, AccessServed, result.Status)

	loaded, err = reloadRecord(t, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.DownloadCount)
}

// A stale OTP denies the attempt but is cleared by being observed.
func TestAttemptAccessExpiredOtpClearsGate(t *testing.T) {
	store := setupTest(t)
	now := time.Now()
	past := now.Add(-time.Minute)
	rec := seedRecord(t, store, func(r *model.FileRecord) {
		r.OtpRequired = true
		r.OtpHash = utils.HashSecret("123456")
		r.OtpExpiresAt = &past
	})

	result, err := AttemptAccess(context.Background(), rec.ID, "", "123456", now)
	require.NoError(t, err)
	assert.Equal(t, AccessUnauthorized, result.Status)
	assert.Equal(t, ReasonOtpExpired, result.Reason)

	gate, err := CheckGate(context.Background(), rec.ID, now)
	require.NoError(t, err)
	assert.False(t, gate.RequiresOtp)

	loaded, err := reloadRecord(t, rec.ID)
	require.NoError(t, err)
	assert.False(t, loaded.OtpRequired)
	assert.Empty(t, loaded.OtpHash)
	assert.Nil(t, loaded.OtpExpiresAt)
	assert.Equal(t, 0, loaded.DownloadCount)
}

func TestAttemptAccessOtpMissingAndInvalid(t *testing.T) {
	store := setupTest(t)
	now := time.Now()
	future := now.Add(5 * time.Minute)
	rec := seedRecord(t, store, func(r *model.FileRecord) {
		r.OtpRequired = true
		r.OtpHash = utils.HashSecret("123456")
		r.OtpExpiresAt = &future
	})

	result, err := AttemptAccess(context.Background(), rec.ID, "", "", now)
	require.NoError(t, err)
	assert.Equal(t, AccessUnauthorized, result.Status)
	assert.Equal(t, ReasonOtpMissing, result.Reason)

	result, err = AttemptAccess(context.Background(), rec.ID, "", "654321", now)
	require.NoError(t, err)
	assert.Equal(t, AccessUnauthorized, result.Status)
	assert.Equal(t, ReasonOtpInvalid, result.Reason)

	loaded, err := reloadRecord(t, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.DownloadCount)
	assert.True(t, loaded.OtpRequired)

	result, err = AttemptAccess(context.Background(), rec.ID, "", "123456", now)
	require.NoError(t, err)
	assert.Equal(t, AccessServed, result.Status)
}

// Password and OTP gates compose conjunctively, password first.
func TestAttemptAccessBothGates(t *testing.T) {
	store := setupTest(t)
	now := time.Now()
	future := now.Add(5 * time.Minute)
	rec := seedRecord(t, store, func(r *model.FileRecord) {
		r.PasswordHash = utils.HashSecret("secret")
		r.OtpRequired = true
		r.OtpHash = utils.HashSecret("123456")
		r.OtpExpiresAt = &future
	})

	result, err := AttemptAccess(context.Background(), rec.ID, "wrong", "123456", now)
	require.NoError(t, err)
	assert.Equal(t, ReasonPassword, result.Reason)

	result, err = AttemptAccess(context.Background(), rec.ID, "secret", "654321", now)
	require.NoError(t, err)
	assert.Equal(t, ReasonOtpInvalid, result.Reason)

	result, err = AttemptAccess(context.Background(), rec.ID, "secret", "123456", now)
	require.NoError(t, err)
	assert.Equal(t, AccessServed, result.Status)
}

// Expired record: the attempt reports gone and the teardown happens on
// the spot.
func TestAttemptAccessExpiredTearsDown(t *testing.T) {
	store := setupTest(t)
	now := time.Now()
	rec := seedRecord(t, store, func(r *model.FileRecord) {
		r.ExpiresAt = now.Add(-time.Second)
	})

	result, err := AttemptAccess(context.Background(), rec.ID, "", "", now)
	require.NoError(t, err)
	assert.Equal(t, AccessGone, result.Status)

	_, err = reloadRecord(t, rec.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.False(t, store.has(rec.Bucket, rec.StorageKey))
}

// The last allowed download serves and destroys the record in the same
// step.
func TestAttemptAccessFinalSlotServesAndDeletes(t *testing.T) {
	store := setupTest(t)
	rec := seedRecord(t, store, func(r *model.FileRecord) {
		r.DownloadLimit = 3
		r.DownloadCount = 2
	})

	result, err := AttemptAccess(context.Background(), rec.ID, "", "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, AccessServed, result.Status)
	assert.NotEmpty(t, result.URL)

	_, err = reloadRecord(t, rec.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

// The persisted count never passes the limit no matter how many
// attempts arrive.
func TestAttemptAccessCountNeverExceedsLimit(t *testing.T) {
	store := setupTest(t)
	rec := seedRecord(t, store, func(r *model.FileRecord) {
		r.DownloadLimit = 3
	})

	served := 0
	for i := 0; i < 10; i++ {
		result, err := AttemptAccess(context.Background(), rec.ID, "", "", time.Now())
		require.NoError(t, err)
		if result.Status == AccessServed {
			served++
		}
		if loaded, err := reloadRecord(t, rec.ID); err == nil {
			assert.LessOrEqual(t, loaded.DownloadCount, loaded.DownloadLimit)
		}
	}
	assert.Equal(t, 3, served)

	_, err := reloadRecord(t, rec.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

// A presign failure on the final slot still destroys the record, so a
// record never persists with its count at the limit.
func TestAttemptAccessPresignFailureOnFinalSlot(t *testing.T) {
	store := setupTest(t)
	rec := seedRecord(t, store, func(r *model.FileRecord) {
		r.DownloadLimit = 1
	})
	store.presignErr = errors.New("presign unavailable")

	_, err := AttemptAccess(context.Background(), rec.ID, "", "", time.Now())
	require.Error(t, err)

	_, err = reloadRecord(t, rec.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCheckGateReportsGates(t *testing.T) {
	store := setupTest(t)
	now := time.Now()
	future := now.Add(5 * time.Minute)
	rec := seedRecord(t, store, func(r *model.FileRecord) {
		r.PasswordHash = utils.HashSecret("secret")
		r.OtpRequired = true
		r.OtpHash = utils.HashSecret("123456")
		r.OtpExpiresAt = &future
		r.Description = "quarterly numbers"
		r.DownloadLimit = 4
		r.DownloadCount = 1
	})

	gate, err := CheckGate(context.Background(), rec.ID, now)
	require.NoError(t, err)
	assert.True(t, gate.RequiresOtp)
	assert.True(t, gate.HasPassword)
	assert.Equal(t, "quarterly numbers", gate.Description)
	assert.Equal(t, 4, gate.DownloadLimit)
	assert.Equal(t, 1, gate.DownloadCount)
}

func TestOwnerDelete(t *testing.T) {
	store := setupTest(t)
	rec := seedRecord(t, store, func(r *model.FileRecord) {
		r.OwnerID = 7
	})

	err := OwnerDelete(context.Background(), rec.ID, 8)
	require.Error(t, err)
	assert.Equal(t, "permission denied", err.Error())
	_, err = reloadRecord(t, rec.ID)
	require.NoError(t, err)

	require.NoError(t, OwnerDelete(context.Background(), rec.ID, 7))
	_, err = reloadRecord(t, rec.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.False(t, store.has(rec.Bucket, rec.StorageKey))
}
