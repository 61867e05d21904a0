// Package notify stores per-user notification preference toggles. Delivery
// itself happens elsewhere; this plugin only answers "does this user want
// this kind of notification" quickly enough to sit in hot paths.
package notify

// Preferences are the per-user notification toggles.
type Preferences struct {
	UserID        string `json:"user_id"`
	OrderAssigned bool   `json:"order_assigned"`
	StatusChange  bool   `json:"status_change"`
	DueSoonDigest bool   `json:"due_soon_digest"`
}

// DefaultPreferences returns the toggles for a user who has never saved any:
// everything on except the digest.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:        userID,
		OrderAssigned: true,
		StatusChange:  true,
		DueSoonDigest: false,
	}
}

// UpdateInput carries the toggle values from the settings form.
type UpdateInput struct {
	OrderAssigned bool `json:"order_assigned"`
	StatusChange  bool `json:"status_change"`
	DueSoonDigest bool `json:"due_soon_digest"`
}
