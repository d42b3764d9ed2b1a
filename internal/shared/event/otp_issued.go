// Package event holds the contracts modules exchange over messaging.
package event

import "time"

// HeaderCorrelationID carries the request correlation id across the broker.
const HeaderCorrelationID string = "X-Correlation-ID"

const OTPIssuedTopic string = "identity.otp.issued"
const OTPIssuedConsumerNotification string = "identity_otp_issued_notification"

// Purposes of an issued code.
const (
	OTPPurposeRegister string = "register"
	OTPPurposeLogin    string = "login"
)

// OTPIssuedMessage is published whenever a one-time code is issued. It
// carries the plain code because the consumer is the delivery channel.
type OTPIssuedMessage struct {
	IdentityID  int64     `json:"identity_id,string"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Code        string    `json:"code"`
	Purpose     string    `json:"purpose"`
	ExpiresAt   time.Time `json:"expires_at"`
}
