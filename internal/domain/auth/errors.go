package auth

import "errors"

// Tokens are issued by the authentication service; these cover verification only
var (
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrEmployeeClaimMissing   = errors.New("token carries no employee_id")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
