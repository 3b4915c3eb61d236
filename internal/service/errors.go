package service

import "errors"

var (
	// ErrZeroAmount is returned when a transaction is attempted for zero.
	ErrZeroAmount = errors.New("transaction amount must not be zero")

	// ErrInsufficientFunds is returned when a debit would drive a non-credit
	// account balance negative. Balances are left untouched.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrCreditLimitExceeded is returned when a write would push a credit
	// account balance past its opening balance.
	ErrCreditLimitExceeded = errors.New("credit limit exceeded")

	// ErrBpayProcessing wraps any failure inside bill resolution.
	ErrBpayProcessing = errors.New("bpay processing failed")

	// ErrUnsupportedScheduleType is returned when a schedule row carries a
	// type the execution engine does not know.
	ErrUnsupportedScheduleType = errors.New("unsupported schedule type")

	// ErrUnsupportedRecurRule is returned for an unknown recurrence rule or
	// pay interval.
	ErrUnsupportedRecurRule = errors.New("unsupported recurrence rule")
)
