package models

import "time"

// ExportBatch is the row shape of export_batches joined with its item count.
type ExportBatch struct {
	ID          int64     `db:"id"`
	RequestedBy string    `db:"requested_by"`
	Count       int       `db:"item_count"`
	GeneratedAt time.Time `db:"generated_at"`
}

// CostCenter is the row shape of cost_centers.
type CostCenter struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	PayerLabel string `db:"payer_label"`
}
