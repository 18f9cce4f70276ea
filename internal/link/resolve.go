package link

import "time"

// Verdict is the outcome of evaluating a link's redirect eligibility.
type Verdict int

const (
	// VerdictResolvable means all checks passed and the visitor may be
	// redirected (and the click recorded).
	VerdictResolvable Verdict = iota
	// VerdictInactive means the link was explicitly disabled.
	VerdictInactive
	// VerdictExpired means the link's expiry timestamp has passed.
	VerdictExpired
	// VerdictCapReached means the click cap has been consumed.
	VerdictCapReached
	// VerdictPasswordRequired means the link is protected and no password
	// was supplied.
	VerdictPasswordRequired
	// VerdictPasswordMismatch means the supplied password is wrong.
	VerdictPasswordMismatch
)

func (v Verdict) String() string {
	switch v {
	case VerdictResolvable:
		return "resolvable"
	case VerdictInactive:
		return "inactive"
	case VerdictExpired:
		return "expired"
	case VerdictCapReached:
		return "cap_reached"
	case VerdictPasswordRequired:
		return "password_required"
	case VerdictPasswordMismatch:
		return "password_mismatch"
	}

	return "unknown"
}

// Resolve evaluates the redirect policy in strict order, short-circuiting
// on the first failing check. Content-free checks (active flag, expiry,
// click cap) run before password handling so that no bcrypt comparison is
// paid for links that cannot resolve anyway.
func (l *Link) Resolve(password string, now time.Time) Verdict {
	if !l.IsActive {
		return VerdictInactive
	}

	if l.ExpiresAt != nil && now.After(*l.ExpiresAt) {
		return VerdictExpired
	}

	if l.MaxClicks != nil && l.ClicksCount >= *l.MaxClicks {
		return VerdictCapReached
	}

	if l.PasswordHash != "" {
		if password == "" {
			return VerdictPasswordRequired
		}

		if !VerifyPassword(password, l.PasswordHash) {
			return VerdictPasswordMismatch
		}
	}

	return VerdictResolvable
}

// Available evaluates only the content-free subset of the policy used by
// the preview endpoint: inactive and expired links are hidden, but the
// click cap and password gate do not apply because no click is consumed.
func (l *Link) Available(now time.Time) Verdict {
	if !l.IsActive {
		return VerdictInactive
	}

	if l.ExpiresAt != nil && now.After(*l.ExpiresAt) {
		return VerdictExpired
	}

	return VerdictResolvable
}
