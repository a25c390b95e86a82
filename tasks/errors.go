package tasks

import "errors"

var (
	// ErrInvalidRoundTime is returned when a round is shorter than its audit
	// and submission windows together
	ErrInvalidRoundTime = errors.New("round time cannot be less than audit window + submission window")
	// ErrNegativeWindow is returned when the round time or a window is
	// negative
	ErrNegativeWindow = errors.New("round time and windows must not be negative")
	// ErrAmountOverflow is returned when a lamport amount does not fit the
	// program's signed 64-bit fields
	ErrAmountOverflow = errors.New("amount exceeds the maximum of 9223372036854775807 lamports")
	// ErrProgramNotFound is returned when the task program account does not
	// exist on the cluster
	ErrProgramNotFound = errors.New("task program not found, use koii testnet or mainnet")
	// ErrProgramNotExecutable is returned when the task program account is
	// not marked executable
	ErrProgramNotExecutable = errors.New("task program is not executable")
	// ErrInsufficientFunds is returned when the payer cannot cover the fees
	ErrInsufficientFunds = errors.New("payer balance is not sufficient")
)
