package models

import "time"

// ChangeFields are the versioning columns shared by rows that are replaced wholesale
// and pushed to subscribers on every write.
type ChangeFields struct {
	Version   int64     `json:"version" db:"version"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	UpdatedBy string    `json:"updatedBy" db:"updated_by"`
}
