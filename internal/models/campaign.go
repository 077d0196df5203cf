package models

import (
	"database/sql"
	"time"
)

// Campaign groups a set of ads created together by a merchant.
type Campaign struct {
	ID         string          `db:"id" json:"id"`
	MerchantID string          `db:"merchant_id" json:"merchantId"`
	Title      string          `db:"title" json:"title"`
	Status     string          `db:"status" json:"status"`
	Budget     sql.NullFloat64 `db:"budget" json:"-"`
	StartDate  sql.NullTime    `db:"start_date" json:"-"`
	EndDate    sql.NullTime    `db:"end_date" json:"-"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}
