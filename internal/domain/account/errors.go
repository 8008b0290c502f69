package account

import "errors"

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrNicknameTaken   = errors.New("nickname already taken")
	ErrEmailExists     = errors.New("email already exists")
)
