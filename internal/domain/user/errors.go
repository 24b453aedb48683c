package user

import "errors"

var (
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrEmployeeClaimMissing    = errors.New("employee_id claim is missing or invalid")
	ErrInvalidToken            = errors.New("invalid or expired token")
)
