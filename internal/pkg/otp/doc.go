// Package otp generates the numeric one-time codes sent by email during
// registration and login.
//
// Codes come from crypto/rand and cover the full digit range of their
// length; they carry no state and cannot be derived from earlier codes.
package otp
