package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeCodeExists = errors.New("employee code already exists")
	ErrEmployeeInactive   = errors.New("employee is inactive")
	ErrUserAlreadyLinked  = errors.New("user is already linked to another employee")
	ErrUnauthorized       = errors.New("unauthorized to access this employee")
)
