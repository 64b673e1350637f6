package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAttendanceExists   = errors.New("attendance already recorded for this employee and date")
	ErrInvalidStatus      = errors.New("status must be one of: P, A, L")
)
