package config

import (
	"io"
	"time"
)

// Config reads typed values by dotted key (for example "database.url").
//
// Missing keys yield the zero value; callers decide on defaults.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt64(key string) int64
	GetFloat64(key string) float64

	// GetSecond and GetMinute read an integer and scale it to a duration.
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration

	// GetArray splits a comma separated value, dropping blanks.
	GetArray(key string) []string

	// GetBinary reads a base64 encoded value.
	GetBinary(key string) []byte
}
