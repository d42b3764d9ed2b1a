package entity

// VerificationContext is the flow a one-time code was issued for. A code
// is only accepted by the context that issued it.
type VerificationContext int16

const (
	// VerificationUnknown is the zero value and never matches a stored code.
	VerificationUnknown VerificationContext = 0
	// VerificationRegister confirms ownership of the email after sign-up.
	VerificationRegister VerificationContext = 1
	// VerificationLogin is the second factor of a password login.
	VerificationLogin VerificationContext = 2
)

func (vc VerificationContext) String() string {
	switch vc {
	case VerificationRegister:
		return "register"
	case VerificationLogin:
		return "login"
	default:
		return "unknown"
	}
}

// IsKnown reports whether vc is Register or Login.
func (vc VerificationContext) IsKnown() bool {
	return vc == VerificationRegister || vc == VerificationLogin
}

// Ensure maps unrecognized values to VerificationUnknown.
func (vc VerificationContext) Ensure() VerificationContext {
	if vc.IsKnown() {
		return vc
	}
	return VerificationUnknown
}
