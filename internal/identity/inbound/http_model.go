package inbound

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/shandysiswandi/storefront/internal/pkg/goerror"
	"github.com/shandysiswandi/storefront/internal/pkg/jwt"
)

// IdentityID is a snowflake id. It is written as a JSON string and read
// from either a string or a number.
type IdentityID int64

func (id IdentityID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(id), 10))), nil
}

func (id *IdentityID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	raw := string(b)
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		unq, err := strconv.Unquote(raw)
		if err != nil {
			return goerror.NewInvalidFormat()
		}
		raw = unq
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return goerror.NewInvalidFormat()
	}
	*id = IdentityID(v)
	return nil
}

type RegisterRequest struct {
	DisplayName string `json:"displayName" example:"Alice"`
	Email       string `json:"email" example:"alice@example.com"`
	Password    string `json:"password" example:"s3cret-pass"`
}

type RegisterResponse struct {
	IdentityID IdentityID `json:"identityId" swaggertype:"string" example:"7214553001348923392"`
}

func (RegisterResponse) Message() string {
	return "OTP sent to your email. Please verify to complete registration."
}

type VerifyOTPRequest struct {
	IdentityID IdentityID `json:"identityId" swaggertype:"string" example:"7214553001348923392"`
	OTP        string     `json:"otp" example:"482913"`
}

type RegisterVerifyOTPResponse struct{}

func (RegisterVerifyOTPResponse) Message() string {
	return "Registration verified. You can now login."
}

type ResendOTPRequest struct {
	IdentityID IdentityID `json:"identityId" swaggertype:"string" example:"7214553001348923392"`
}

type ResendOTPResponse struct{}

func (ResendOTPResponse) Message() string { return "OTP resent to your email." }

type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"s3cret-pass"`
}

type LoginResponse struct {
	IdentityID IdentityID `json:"identityId" swaggertype:"string" example:"7214553001348923392"`
}

func (LoginResponse) Message() string {
	return "OTP sent to your email. Please verify to complete login."
}

type User struct {
	Email       string     `json:"email" example:"alice@example.com"`
	Role        string     `json:"role" example:"user"`
	ID          IdentityID `json:"id" swaggertype:"string" example:"7214553001348923392"`
	DisplayName string     `json:"displayName" example:"Alice"`
}

func newUser(s jwt.Session) User {
	return User{
		Email:       s.Email,
		Role:        s.Role,
		ID:          IdentityID(s.IdentityID),
		DisplayName: s.DisplayName,
	}
}

type LoginVerifyOTPResponse struct {
	User User `json:"user"`

	cookie *http.Cookie
}

func (LoginVerifyOTPResponse) Message() string { return "Logged in successfully" }

func (r LoginVerifyOTPResponse) Cookies() []*http.Cookie {
	return []*http.Cookie{r.cookie}
}

type LogoutResponse struct {
	cookie *http.Cookie
}

func (LogoutResponse) Message() string { return "Logged out successfully!" }

func (r LogoutResponse) Cookies() []*http.Cookie {
	return []*http.Cookie{r.cookie}
}

type CheckAuthResponse struct {
	User User `json:"user"`
}

func (CheckAuthResponse) Message() string { return "Authenticated user!" }
