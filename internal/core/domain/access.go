package domain

// AccessDecision is the outcome of gating a view on session state.
type AccessDecision int

const (
	// AccessPending means the session is still bootstrapping; render a loading
	// state and neither show content nor redirect.
	AccessPending AccessDecision = iota
	// AccessRedirect means the required identity is absent.
	AccessRedirect
	// AccessGranted means the protected content may be rendered.
	AccessGranted
)

func (d AccessDecision) String() string {
	switch d {
	case AccessPending:
		return "pending"
	case AccessRedirect:
		return "redirect"
	case AccessGranted:
		return "granted"
	default:
		return "unknown"
	}
}

// DecideAdminAccess gates admin-only views. It is a pure function of state.
func DecideAdminAccess(s SessionState) AccessDecision {
	switch {
	case s.Bootstrapping:
		return AccessPending
	case !s.IsAdmin():
		return AccessRedirect
	default:
		return AccessGranted
	}
}

// DecideUserAccess gates customer-only views (cart, orders, profile).
func DecideUserAccess(s SessionState) AccessDecision {
	switch {
	case s.Bootstrapping:
		return AccessPending
	case !s.HasUser():
		return AccessRedirect
	default:
		return AccessGranted
	}
}
