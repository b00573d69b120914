package domain

import "time"

type ReportRow struct {
	Path  string `json:"path"`  // Full category path, e.g. "Shoes / Boots"
	Count int    `json:"count"` // Offers referencing the category directly
}

type Report struct {
	Source      string      `json:"source"`       // Feed URL the report was built from
	GeneratedAt time.Time   `json:"generated_at"` // Time the rows were built
	Rows        []ReportRow `json:"rows"`         // Sorted by numeric category id
}
