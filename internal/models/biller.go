package models

// Biller represents a BPAY biller that can issue bills and receive payments.
type Biller struct {
	ID   int64  `json:"id"`
	Name string `json:"biller_name"`
	Code string `json:"biller_code"`
}
