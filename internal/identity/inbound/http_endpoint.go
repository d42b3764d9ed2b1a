package inbound

import (
	"github.com/shandysiswandi/storefront/internal/identity/entity"
	"github.com/shandysiswandi/storefront/internal/identity/usecase"
	"github.com/shandysiswandi/storefront/internal/pkg/router"
)

// HTTPEndpoint exposes the OTP authentication flows over HTTP.
type HTTPEndpoint struct {
	uc     uc
	cookie CookieConfig
}

// Register creates an unverified identity and emails a registration OTP.
// @Summary Register identity
// @Description Creates an unverified identity and sends a one-time code to its email.
// @Tags Identity, Registration
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Register payload"
// @Success 200 {object} RegisterResponse "OTP sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "User already exists"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/auth/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{IdentityID: IdentityID(resp.IdentityID)}, nil
}

// RegisterVerifyOTP marks the identity verified.
// @Summary Verify registration OTP
// @Tags Identity, Registration
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Verify payload"
// @Success 200 {object} RegisterVerifyOTPResponse "Registration verified"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or expired OTP"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 409 {object} router.errorResponse "Already verified"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/auth/register-verify-otp [post]
func (h *HTTPEndpoint) RegisterVerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if _, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		IdentityID: int64(req.IdentityID),
		Code:       req.OTP,
		Context:    entity.VerificationRegister,
	}); err != nil {
		return nil, err
	}

	return RegisterVerifyOTPResponse{}, nil
}

// RegisterResendOTP replaces the pending registration OTP.
// @Summary Resend registration OTP
// @Tags Identity, Registration
// @Accept json
// @Produce json
// @Param request body ResendOTPRequest true "Resend payload"
// @Success 200 {object} ResendOTPResponse "OTP resent"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 409 {object} router.errorResponse "Already verified"
// @Failure 429 {object} router.errorResponse "Resend requested too soon"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/auth/register-resend-otp [post]
func (h *HTTPEndpoint) RegisterResendOTP(r *router.Request) (any, error) {
	return h.resend(r, entity.VerificationRegister)
}

// Login checks the password and emails a login OTP.
// @Summary Start login
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} LoginResponse "OTP sent"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 403 {object} router.errorResponse "Email not verified"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/auth/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{IdentityID: IdentityID(resp.IdentityID)}, nil
}

// LoginVerifyOTP completes the login and sets the session cookie.
// @Summary Verify login OTP
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Verify payload"
// @Success 200 {object} LoginVerifyOTPResponse "Logged in"
// @Failure 401 {object} router.errorResponse "Invalid or expired OTP"
// @Failure 403 {object} router.errorResponse "Email not verified"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/auth/login-verify-otp [post]
func (h *HTTPEndpoint) LoginVerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		IdentityID: int64(req.IdentityID),
		Code:       req.OTP,
		Context:    entity.VerificationLogin,
	})
	if err != nil {
		return nil, err
	}

	return LoginVerifyOTPResponse{
		User:   newUser(*resp.Session),
		cookie: h.cookie.session(resp.Token, resp.SessionTTL),
	}, nil
}

// LoginResendOTP replaces the pending login OTP.
// @Summary Resend login OTP
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body ResendOTPRequest true "Resend payload"
// @Success 200 {object} ResendOTPResponse "OTP resent"
// @Failure 403 {object} router.errorResponse "Email not verified"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 429 {object} router.errorResponse "Resend requested too soon"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/auth/login-resend-otp [post]
func (h *HTTPEndpoint) LoginResendOTP(r *router.Request) (any, error) {
	return h.resend(r, entity.VerificationLogin)
}

func (h *HTTPEndpoint) resend(r *router.Request, vc entity.VerificationContext) (any, error) {
	var req ResendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ResendOTP(r.Context(), usecase.ResendOTPInput{
		IdentityID: int64(req.IdentityID),
		Context:    vc,
	}); err != nil {
		return nil, err
	}

	return ResendOTPResponse{}, nil
}

// Logout revokes the current session and clears the cookie.
// @Summary Logout
// @Tags Identity, Authentication
// @Produce json
// @Success 200 {object} LogoutResponse "Logged out"
// @Router /api/auth/logout [post]
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	if err := h.uc.Logout(r.Context()); err != nil {
		return nil, err
	}

	return LogoutResponse{cookie: h.cookie.clear()}, nil
}

// CheckAuth returns the user of the session cookie.
// @Summary Check session
// @Tags Identity, Authentication
// @Produce json
// @Success 200 {object} CheckAuthResponse "Authenticated user"
// @Failure 401 {object} router.errorResponse "Unauthorised user"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/auth/check-auth [get]
func (h *HTTPEndpoint) CheckAuth(r *router.Request) (any, error) {
	resp, err := h.uc.CheckAuth(r.Context())
	if err != nil {
		return nil, err
	}

	return CheckAuthResponse{User: newUser(resp.Session)}, nil
}
