package handlers

import "time"

// DateLayout is the wire format of expiry dates.
const DateLayout = "2006-01-02"

type MedicineRequest struct {
	Name         string  `json:"name"`
	GenericName  string  `json:"generic_name,omitempty"`
	Manufacturer string  `json:"manufacturer"`
	BatchNumber  string  `json:"batch_number"`
	ExpiryDate   string  `json:"expiry_date"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	Description  string  `json:"description,omitempty"`
}

type MedicineResponse struct {
	Id           int       `json:"id"`
	Name         string    `json:"name"`
	GenericName  string    `json:"generic_name,omitempty"`
	Manufacturer string    `json:"manufacturer"`
	BatchNumber  string    `json:"batch_number"`
	ExpiryDate   string    `json:"expiry_date"`
	Price        float64   `json:"price"`
	Stock        int       `json:"stock"`
	Description  string    `json:"description,omitempty"`
	QRPayload    string    `json:"qr_payload"`
	QRCodeURL    string    `json:"qr_code_url"`
	LowStock     bool      `json:"low_stock,omitempty"`
	Expired      bool      `json:"expired,omitempty"`
	Score        float64   `json:"score,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type MedicinesSearchResult struct {
	Query string             `json:"query,omitempty"`
	Data  []MedicineResponse `json:"data"`
	Meta  Meta               `json:"meta"`
}

type MedicinePrefillResponse struct {
	ScannedData string `json:"scanned_data,omitempty"`
	Name        string `json:"name,omitempty"`
	BatchNumber string `json:"batch_number,omitempty"`
}

type StockAdjustmentRequest struct {
	Delta int `json:"delta"` // can be positive or negative
}

type ScanRequest struct {
	QRData string `json:"qr_data"`
}

type ScanCandidate struct {
	Medicine MedicineResponse `json:"medicine"`
	Score    float64          `json:"score"`
}

type ScanResponse struct {
	Outcome     string            `json:"outcome"`
	Match       string            `json:"match,omitempty"`
	ScanLogID   int               `json:"scan_log_id"`
	Medicine    *MedicineResponse `json:"medicine,omitempty"`
	Location    string            `json:"location,omitempty"`
	SearchTerm  string            `json:"search_term,omitempty"`
	Matches     []ScanCandidate   `json:"matches,omitempty"`
	Error       string            `json:"error,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
	CreateURL   string            `json:"create_url,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ScanLogResponse struct {
	ID          int       `json:"id"`
	ScannedData string    `json:"scanned_data"`
	Recognized  bool      `json:"recognized"`
	MedicineID  *int      `json:"medicine_id,omitempty"`
	UserID      int       `json:"user_id"`
	Timestamp   time.Time `json:"timestamp"`
}

type ScanLogsSearchResult struct {
	Data []ScanLogResponse `json:"data"`
	Meta Meta              `json:"meta"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterAsAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type FederatedUserRequest struct {
	Email string `json:"email"`
}

type FederatedUserResult struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type LoginResult struct {
	Token string `json:"token"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type ImportMedicinesResult struct {
	ImportedMedicinesCount int               `json:"imported"`
	Errors                 []ValidationError `json:"errors"`
}
