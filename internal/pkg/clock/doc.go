// Package clock provides a tiny time abstraction.
//
// Business code depends on Clocker instead of calling time.Now directly;
// tests use Manual to step over expiry boundaries deterministically.
package clock
