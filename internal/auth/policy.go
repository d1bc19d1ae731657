package auth

import "job-portal/internal/domain"

// Decision is the outcome of evaluating a credential against a view's
// role requirements.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToHome:
		return "redirect-to-home"
	default:
		return "unknown"
	}
}

// Capability names an action a role may perform.
type Capability string

const (
	CapApplyToJobs     Capability = "apply-to-jobs"
	CapBrowseEmployees Capability = "browse-employees"
	CapPostJobs        Capability = "post-jobs"
	CapRespondToCV     Capability = "respond-to-cv"
	CapContactEmployee Capability = "contact-employee"
)

// capabilities is the per-role capability table. Role checks go through this
// table rather than ad hoc role comparisons scattered across handlers.
var capabilities = map[domain.Role]map[Capability]bool{
	domain.RoleJobSeeker: {
		CapApplyToJobs: true,
	},
	domain.RoleEmployer: {
		CapBrowseEmployees: true,
		CapPostJobs:        true,
		CapRespondToCV:     true,
		CapContactEmployee: true,
	},
}

// Can reports whether the role holds the capability.
func Can(role domain.Role, cap Capability) bool {
	return capabilities[role][cap]
}

// Evaluate decides access for a decoded credential. A nil claims value means
// no credential (or an invalid one) was present. With no required roles any
// authenticated user is allowed.
func Evaluate(claims *Claims, required ...domain.Role) Decision {
	if claims == nil || !claims.Role.Valid() {
		return RedirectToLogin
	}
	if len(required) == 0 {
		return Allow
	}
	for _, role := range required {
		if claims.Role == role {
			return Allow
		}
	}
	return RedirectToHome
}
