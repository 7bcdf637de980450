package models

import "time"

// Medicine represents a medicine inventory record.
type Medicine struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	GenericName  string    `json:"generic_name,omitempty"`
	Manufacturer string    `json:"manufacturer"`
	BatchNumber  string    `json:"batch_number"`
	ExpiryDate   time.Time `json:"expiry_date"`
	Price        float64   `json:"price"`
	Stock        int       `json:"stock"`
	Description  string    `json:"description,omitempty"`
	QRCode       []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (m Medicine) String() string {
	return m.Name + " (" + m.BatchNumber + ")"
}
