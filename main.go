package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/storefront/internal/app"
)

// @title           Storefront Auth API
// @version         1.0
// @description     Storefront provides email OTP registration, login and session APIs.
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  CookieAuth
// @in cookie
// @name token
// @description Session token set by /api/auth/login-verify-otp.
func main() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the application and wait for the termination signal
	<-wait                      // Wait for the application to receive a termination signal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}
