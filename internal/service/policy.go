package service

import (
	"VaultDrop/model"
	"time"
)

// Decision is the lifecycle verdict for one access attempt.
type Decision int

const (
	DecisionServable Decision = iota
	DecisionExpired
	DecisionQuotaExhausted
)

// EvaluatePolicy decides whether a record may still be served at the
// given instant. Expiry wins over quota, and the expiry boundary is
// inclusive: a record whose expires_at equals now is already expired.
// Pure function, no side effects.
func EvaluatePolicy(rec *model.FileRecord, now time.Time) Decision {
	if !rec.ExpiresAt.After(now) {
		return DecisionExpired
	}
	if rec.DownloadCount >= rec.DownloadLimit {
		return DecisionQuotaExhausted
	}
	return DecisionServable
}
