package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrEmployeeAlreadyLinked   = errors.New("employee is already linked to another user")
	ErrStaffAccessRequired     = errors.New("staff access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrNoLinkedEmployee        = errors.New("no employee record is linked to this account")
)
