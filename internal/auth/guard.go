package auth

import "job-portal/internal/domain"

// Guard gates access to protected views. It re-reads the session and
// re-decodes the credential on every call; decisions are never cached because
// the credential may have been cleared or replaced since the last navigation.
type Guard struct {
	sessions *SessionStore
}

func NewGuard(sessions *SessionStore) *Guard {
	return &Guard{sessions: sessions}
}

// Check decides whether the current session may access a view restricted to
// the given roles. A structurally invalid credential is purged from the
// session before redirecting, so a stale token cannot loop the user through
// the guard again.
func (g *Guard) Check(required ...domain.Role) Decision {
	token, ok := g.sessions.Get()
	if !ok {
		return RedirectToLogin
	}

	claims, err := DecodeCredential(token)
	if err != nil {
		g.sessions.Clear()
		return RedirectToLogin
	}

	return Evaluate(claims, required...)
}

// Claims returns the decoded claims for the current session, if any. Invalid
// credentials are purged, mirroring Check.
func (g *Guard) Claims() (*Claims, bool) {
	token, ok := g.sessions.Get()
	if !ok {
		return nil, false
	}
	claims, err := DecodeCredential(token)
	if err != nil {
		g.sessions.Clear()
		return nil, false
	}
	return claims, true
}
