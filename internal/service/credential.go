package service

import (
	"VaultDrop/model"
	"VaultDrop/utils"
	"time"
)

// OtpResult is the outcome of an OTP check.
type OtpResult int

const (
	OtpNotRequired OtpResult = iota
	OtpValid
	OtpExpired
	OtpInvalid
	OtpMissing
)

// CheckFilePassword verifies the password gate. A record without a
// password passes vacuously; a configured password fails closed when
// the supplied value is empty or does not match.
func CheckFilePassword(rec *model.FileRecord, supplied string) bool {
	if !rec.HasPassword() {
		return true
	}
	if supplied == "" {
		return false
	}
	return utils.VerifySecret(supplied, rec.PasswordHash)
}

// CheckFileOtp verifies the OTP gate. The caller is responsible for
// clearing the stale OTP fields when OtpExpired is returned.
func CheckFileOtp(rec *model.FileRecord, supplied string, now time.Time) OtpResult {
	if !rec.OtpRequired {
		return OtpNotRequired
	}
	if rec.OtpHash == "" || rec.OtpExpiresAt == nil || rec.OtpExpiresAt.Before(now) {
		return OtpExpired
	}
	if supplied == "" {
		return OtpMissing
	}
	if !utils.VerifySecret(supplied, rec.OtpHash) {
		return OtpInvalid
	}
	return OtpValid
}
