package domain

import "github.com/pkg/errors"

// Failure taxonomy shared by readers, pricing and tooling.
var (
	// ErrSourceUnavailable marks a network or file read failure on an optional source
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedDocument marks a JSON or tabular parse failure
	ErrMalformedDocument = errors.New("malformed document")
	// ErrInvalidPricingInput marks a negative/non-finite price or missing rate
	ErrInvalidPricingInput = errors.New("invalid pricing input")
	// ErrAssetMissing marks a referenced asset that does not exist on disk
	ErrAssetMissing = errors.New("asset missing")
	// ErrStructuralFailure marks a failure that must fail verify/update tooling
	ErrStructuralFailure = errors.New("structural failure")
)
