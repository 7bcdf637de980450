package models

import "time"

// ScanLog is one entry of the append-only scan audit trail.
// MedicineID is cleared when the linked medicine is deleted; the entry itself stays.
type ScanLog struct {
	ID          int       `json:"id"`
	ScannedData string    `json:"scanned_data"`
	Recognized  bool      `json:"recognized"`
	MedicineID  *int      `json:"medicine_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	UserID      int       `json:"user_id"`
}
