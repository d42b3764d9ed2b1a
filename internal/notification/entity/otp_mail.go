package entity

import "time"

// OTPMail is one one-time code to deliver by email.
type OTPMail struct {
	IdentityID  int64
	To          string
	DisplayName string
	Code        string
	Purpose     string
	ExpiresAt   time.Time
}
