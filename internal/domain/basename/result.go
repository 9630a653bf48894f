package basename

import (
	"math/big"
	"time"
)

// AvailabilityResult is the verdict of one availability resolution.
// Price is only meaningful when Available is true; Error is set when no
// definitive verdict could be produced or the input was rejected.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Price     string `json:"price,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Available builds a positive verdict with a quoted price.
func Available(price string) AvailabilityResult {
	return AvailabilityResult{Available: true, Price: price}
}

// Taken builds a negative verdict without an error.
func Taken() AvailabilityResult {
	return AvailabilityResult{}
}

// Failed builds a negative verdict carrying an error message.
func Failed(msg string) AvailabilityResult {
	return AvailabilityResult{Error: msg}
}

// RegistrationResult is returned to callers of a registration submission.
type RegistrationResult struct {
	Success bool   `json:"success"`
	TxHash  string `json:"tx_hash,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RegisterRequest carries the arguments of the registrar controller's payable
// register call.
type RegisterRequest struct {
	Name     CandidateName
	Owner    string
	Duration *big.Int
	Value    *big.Int
}

// Registration is a broadcast registration kept for history queries.
type Registration struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Owner       string    `json:"owner"`
	TxHash      string    `json:"tx_hash"`
	ValueWei    string    `json:"value_wei"`
	DurationSec int64     `json:"duration_sec"`
	SubmittedAt time.Time `json:"submitted_at"`
}
