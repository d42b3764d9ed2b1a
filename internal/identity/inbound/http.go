package inbound

import (
	"context"

	"github.com/shandysiswandi/storefront/internal/identity/usecase"
	"github.com/shandysiswandi/storefront/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)

	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)
	ResendOTP(ctx context.Context, in usecase.ResendOTPInput) error

	CheckAuth(ctx context.Context) (*usecase.CheckAuthOutput, error)
	Logout(ctx context.Context) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, cookie CookieConfig) {
	end := &HTTPEndpoint{uc: uc, cookie: cookie.withDefaults()}

	r.POST("/api/auth/register", end.Register)
	r.POST("/api/auth/register-verify-otp", end.RegisterVerifyOTP)
	r.POST("/api/auth/register-resend-otp", end.RegisterResendOTP)
	//
	r.POST("/api/auth/login", end.Login)
	r.POST("/api/auth/login-verify-otp", end.LoginVerifyOTP)
	r.POST("/api/auth/login-resend-otp", end.LoginResendOTP)
	//
	r.POST("/api/auth/logout", end.Logout)
	r.GET("/api/auth/check-auth", end.CheckAuth) // need authenticated
}
