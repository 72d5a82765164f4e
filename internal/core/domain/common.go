package domain

import "time"

// BaseCurrency is the currency every monetary amount is persisted in.
const BaseCurrency = "EUR"

// ChangeStamp records who last changed a shared, whole-value record and its version.
// Version increases by one on every write and is what subscribers deduplicate on.
type ChangeStamp struct {
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"` // user ID or session ID of the writer
}
