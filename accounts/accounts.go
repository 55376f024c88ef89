package accounts

import (
	"strings"
	"time"
)

// User is the profile returned by the current-user endpoint. It is owned by
// the session manager: replaced on every successful profile fetch, dropped
// whenever the tokens are cleared.
type User struct {
	ID        string `json:"id,omitempty"`         // Unique identifier for the user
	Email     string `json:"email,omitempty"`      // User's email address
	FirstName string `json:"first_name,omitempty"` // First name of the user
	LastName  string `json:"last_name,omitempty"`  // Last name of the user

	// Tenant membership and role flags
	TenantID      string `json:"tenant_id,omitempty"`       // Owning tenant in the multi-tenant backend
	TenantName    string `json:"tenant_name,omitempty"`     // Display name of the tenant
	IsTenantAdmin bool   `json:"is_tenant_admin,omitempty"` // Can manage users and settings within the tenant
	IsSuperuser   bool   `json:"is_superuser,omitempty"`    // Platform-level administrator

	// Subscription and usage counters
	SubscriptionPlan string `json:"subscription_plan,omitempty"` // Active plan identifier
	CreditsUsed      int    `json:"credits_used,omitempty"`      // AI credits consumed this cycle
	CreditsRemaining int    `json:"credits_remaining,omitempty"` // AI credits left this cycle

	DateJoined time.Time `json:"date_joined,omitempty"` // When the user registered
	LastLogin  time.Time `json:"last_login,omitempty"`  // Last successful login
}

// FullName derives the display name from the first and last name, falling
// back to the email when both are empty.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// TokenPair is the payload returned by the token-issuance endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterRequest is the body of the registration endpoint. ConfirmPassword
// is validated server-side; the client forwards it untouched.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}
