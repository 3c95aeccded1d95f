// Package errors provides structured error handling with machine-readable
// codes for the portal services.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Login and token errors
	CodeLoginInvalidCredentials Code = "LOGIN_INVALID_CREDENTIALS"
	CodeTokenMissing            Code = "TOKEN_MISSING"
	CodeTokenInvalid            Code = "TOKEN_INVALID"
	CodeTokenExpired            Code = "TOKEN_EXPIRED"

	// Directory errors
	CodeDealerNotFound Code = "DEALER_NOT_FOUND"

	// Bank simulator errors
	CodeBankAuthFailed Code = "BANK_AUTH_FAILED"

	// Return filing errors
	CodeReturnMissingFields Code = "RETURN_MISSING_FIELDS"

	// Payment errors
	CodePaymentMissingFields Code = "PAYMENT_MISSING_FIELDS"

	// Settlement errors
	CodeSettlementMissingFields Code = "SETTLEMENT_MISSING_FIELDS"
	CodeTransactionNotFound     Code = "TRANSACTION_NOT_FOUND"

	// Storage errors
	CodeStorageFailure Code = "STORAGE_FAILURE"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, missing fields
	case CodeReturnMissingFields,
		CodePaymentMissingFields,
		CodeSettlementMissingFields:
		return http.StatusBadRequest

	// Unauthorized - credential or token failures
	case CodeLoginInvalidCredentials,
		CodeTokenInvalid,
		CodeTokenExpired,
		CodeBankAuthFailed:
		return http.StatusUnauthorized

	// Forbidden - no token presented at all
	case CodeTokenMissing:
		return http.StatusForbidden

	// Not found - resource doesn't exist
	case CodeDealerNotFound,
		CodeTransactionNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
