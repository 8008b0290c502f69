package comment

import "errors"

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrStoryNotFound   = errors.New("story not found")
	ErrParentNotFound  = errors.New("parent comment not found")
	ErrNestedReply     = errors.New("replies to replies are not allowed")
	ErrParentMismatch  = errors.New("parent comment belongs to a different story")
	ErrNotAuthor       = errors.New("not the comment author")
)
