package model

import "time"

// Category represents a spending category. A category is either owned by a
// single user or, when OwnerID is nil, shared as a system default visible
// to every user.
type Category struct {
	CreatedAt time.Time
	OwnerID   *int64
	Name      string
	ID        int64
	IsActive  bool
}

// IsShared reports whether the category is a system default rather than a
// user-owned one.
func (c Category) IsShared() bool {
	return c.OwnerID == nil
}

// FallbackCategoryName is the designated catch-all category returned when
// no confident classification is possible.
const FallbackCategoryName = "Other"
