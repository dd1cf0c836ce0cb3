package models

import (
	"time"

	"github.com/google/uuid"
)

// Bill is a payable obligation tied to a policy event (issuance or renewal).
type Bill struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	PolicyID      uuid.UUID  `json:"policy_id" db:"policy_id"`
	BillType      BillType   `json:"bill_type" db:"bill_type"`
	BillDate      time.Time  `json:"bill_date" db:"bill_date"`
	Amount        float64    `json:"amount" db:"amount"`
	Paid          bool       `json:"paid" db:"paid"`
	Status        BillStatus `json:"status" db:"status"`
	DueDate       *time.Time `json:"due_date,omitempty" db:"due_date"`
	PaidAt        *time.Time `json:"paid_at,omitempty" db:"paid_at"`
	InvoiceObject *string    `json:"invoice_object,omitempty" db:"invoice_object"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// BillPayment is one payment attempt against a bill. A SUCCESS payment is
// never mutated afterwards; the bill's paid total is the sum of SUCCESS rows.
type BillPayment struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	BillID         uuid.UUID     `json:"bill_id" db:"bill_id"`
	Amount         float64       `json:"amount" db:"amount"`
	Method         string        `json:"method" db:"method"`
	Status         PaymentStatus `json:"status" db:"status"`
	TransactionRef string        `json:"transaction_ref" db:"transaction_ref"`
	Note           *string       `json:"note,omitempty" db:"note"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      *time.Time    `json:"updated_at,omitempty" db:"updated_at"`
	ProcessedAt    *time.Time    `json:"processed_at,omitempty" db:"processed_at"`
}
