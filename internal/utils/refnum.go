package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// invoiceBase offsets invoice numbers so they never start at low,
// obviously-sequential values.
const invoiceBase = 20200

// GenerateDigits generates a numeric string with the specified prefix and length
func GenerateDigits(prefix string, length int) (string, error) {
	if length < len(prefix) || length > 19 {
		return "", fmt.Errorf("invalid digit string length: %d", length)
	}

	// Generate random digits
	digits := make([]byte, length-len(prefix))
	_, err := rand.Read(digits)
	if err != nil {
		return "", fmt.Errorf("failed to generate random digits: %w", err)
	}

	// Convert to string and ensure valid digits
	var builder strings.Builder
	builder.WriteString(prefix)
	for _, b := range digits {
		digit := b%10 + '0' // Convert to ASCII digit
		builder.WriteByte(digit)
	}

	out := builder.String()
	if len(out) != length {
		return "", fmt.Errorf("generated digit string has incorrect length: got %d, want %d", len(out), length)
	}

	return out, nil
}

// ReferenceNumber generates a 12-digit BPAY customer reference number
func ReferenceNumber() (string, error) {
	return GenerateDigits("", 12)
}

// GenerateBSB generates a 6-digit branch number
func GenerateBSB() (string, error) {
	return GenerateDigits("", 6)
}

// GenerateAccountNumber generates a 9-digit account number
func GenerateAccountNumber() (string, error) {
	return GenerateDigits("", 9)
}

// UniqueInvoiceNumber derives the next invoice number from the highest
// existing bill id. Strictly increasing for increasing maxBillID.
func UniqueInvoiceNumber(maxBillID int64) string {
	return fmt.Sprintf("INV/%d", invoiceBase+maxBillID+1)
}

// CalculateDueDate returns the standard due date for a newly issued bill.
func CalculateDueDate(now time.Time) time.Time {
	return now.AddDate(0, 0, 30)
}
