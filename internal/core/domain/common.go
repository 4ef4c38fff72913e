package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// SchemaCapabilities describes optional ledger columns found at startup.
// Legacy databases may lack the grouping columns.
type SchemaCapabilities struct {
	GroupToken          bool
	MultiAllocationFlag bool
}

// FullSchema is the capability set of a database migrated by this service.
var FullSchema = SchemaCapabilities{GroupToken: true, MultiAllocationFlag: true}
