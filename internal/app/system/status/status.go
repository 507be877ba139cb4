// internal/app/system/status/status.go

// Package status defines the lifecycle status values shared by rooms
// and other soft-deleted entities. Entities are never removed from the
// database; they move between these states.
package status

const (
	Active   = "active"
	Inactive = "inactive"
)

// Valid reports whether s is a recognized status value.
func Valid(s string) bool {
	return s == Active || s == Inactive
}
