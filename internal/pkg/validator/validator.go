package validator

// Validator checks struct tags and reports violations keyed by JSON field name.
type Validator interface {
	Validate(data any) error
}
