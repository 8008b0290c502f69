package relationship

import "errors"

var (
	// ErrSelfRelation is returned when an account targets itself
	ErrSelfRelation = errors.New("cannot follow or block yourself")

	// ErrAccountNotFound is returned when actor or target does not exist
	ErrAccountNotFound = errors.New("account not found")

	// ErrAlreadyFollowing is returned on a duplicate follow of an active pair
	ErrAlreadyFollowing = errors.New("already following this account")

	// ErrFollowNotFound is returned when unfollow finds no FOLLOWING edge
	ErrFollowNotFound = errors.New("follow record not found")

	// ErrBlockNotFound is returned when unblock finds no BLOCKED edge
	ErrBlockNotFound = errors.New("block record not found")

	// ErrEdgeConflict is returned when a racing transaction changed the pair
	// between the state read and the write; the caller may retry
	ErrEdgeConflict = errors.New("relationship changed concurrently")
)
