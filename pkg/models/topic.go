package models

import "time"

// Topic represents a subject in the study catalog, e.g. "Diabetic Ketoacidosis".
// Topics form a hierarchy through ParentID and carry the owning body-system tag.
// The engine treats topics as immutable; they are created and edited by content
// management.
type Topic struct {
	ID          int64     `json:"id" db:"id"`
	ParentID    *int64    `json:"parent_id,omitempty" db:"parent_id"`
	Name        string    `json:"name" db:"name"`
	SystemName  string    `json:"system_name" db:"system_name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
