// Package activity is the append-only office feed. Other plugins record
// loosely-typed entries; the formatter turns them into human sentences for
// the dashboard without ever failing on unknown shapes.
package activity

import "time"

// Entry is one recorded action in the feed.
type Entry struct {
	ID          int64             `json:"id"`
	ActorID     string            `json:"actor_id"`
	ActorName   string            `json:"actor_name"`
	Verb        string            `json:"verb"`
	ObjectType  string            `json:"object_type"`
	ObjectID    string            `json:"object_id"`
	ObjectLabel string            `json:"object_label"`
	Meta        map[string]string `json:"meta,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`

	// Sentence is the rendered human-readable form, filled in by listings.
	Sentence string `json:"sentence,omitempty"`
}

// ListOptions controls pagination and object scoping for feed listings.
type ListOptions struct {
	Page       int
	PerPage    int
	ObjectType string
	ObjectID   string
}

// Offset converts the page number to a SQL offset.
func (o ListOptions) Offset() int {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.PerPage
}
