// Package validator provides a small validation abstraction for request
// structs.
//
// Business code depends on Validator; V10Validator implements it with
// go-playground/validator v10, English messages and a "password" rule.
package validator
