package report

import "errors"

var (
	ErrAlreadyReported = errors.New("target already reported by this user")
	ErrTargetNotFound  = errors.New("report target not found")
)
