package story

import "errors"

var (
	ErrStoryNotFound = errors.New("story not found")
	ErrNotOwner      = errors.New("not the story owner")
)
