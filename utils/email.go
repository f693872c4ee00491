package utils

import (
	"crypto/tls"
	"errors"
	"net/smtp"
	"os"
	"strings"

	"github.com/jordan-wright/email"
)

func smtpSend(e *email.Email) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")
	if host == "" || port == "" || user == "" || pass == "" || from == "" {
		return errors.New("smtp config missing")
	}
	e.From = from

	addr := host + ":" + port
	auth := smtp.PlainAuth("", user, pass, host)
	tlsConfig := &tls.Config{ServerName: host}
	useTLS := strings.EqualFold(os.Getenv("SMTP_TLS"), "true") ||
		os.Getenv("SMTP_TLS") == "1" ||
		port == "465"
	useStartTLS := strings.EqualFold(os.Getenv("SMTP_STARTTLS"), "true") ||
		os.Getenv("SMTP_STARTTLS") == "1"

	if useTLS {
		return e.SendWithTLS(addr, auth, tlsConfig)
	}
	if useStartTLS {
		return e.SendWithStartTLS(addr, auth, tlsConfig)
	}
	return e.Send(addr, auth)
}

// SendActivateMail sends an account activation email.
func SendActivateMail(to, link string) error {
	e := email.NewEmail()
	e.To = []string{to}
	e.Subject = "Account Activation"
	e.HTML = []byte(`
		<h2>Welcome</h2>
		<p>Please click the link below to activate your account:</p>
		<a href="` + link + `">Activate account</a>
		<p>The link is valid for 10 minutes.</p>
	`)
	return smtpSend(e)
}

// SendResetMail sends a password reset link.
func SendResetMail(to, link string) error {
	e := email.NewEmail()
	e.To = []string{to}
	e.Subject = "VaultDrop Password Reset"
	e.HTML = []byte(`
		<h2>Password Reset Request</h2>
		<p>You are receiving this because a password reset was requested for your account.</p>
		<p>Please click the link below to reset your password:</p>
		<a href="` + link + `">Reset password</a>
		<p>The link is valid for 1 hour.</p>
		<p>If you did not request a password reset, please ignore this email.</p>
	`)
	return smtpSend(e)
}

// SendOtpMail sends a one-time passcode and file access link.
func SendOtpMail(to, otp, link string) error {
	e := email.NewEmail()
	e.To = []string{to}
	e.Subject = "Your OTP and File Access Link"
	e.Text = []byte("Your OTP is " + otp + ". It expires in 10 minutes.\n\nAccess your file here: " + link)
	e.HTML = []byte(`
		<h2>Secure File Access</h2>
		<p>You have received a secure file access link.</p>
		<p><strong>Your OTP:</strong> <span style="font-size: 20px; letter-spacing: 2px;">` + otp + `</span></p>
		<p>This OTP is valid for 10 minutes. Please do not share it with anyone.</p>
		<a href="` + link + `">Access File</a>
		<p>If you did not request this email, you can safely ignore it.</p>
	`)
	return smtpSend(e)
}
