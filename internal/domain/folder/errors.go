package folder

import "errors"

var (
	ErrFolderNotFound   = errors.New("folder not found")
	ErrFolderExists     = errors.New("folder with this name already exists")
	ErrNotOwner         = errors.New("not the folder owner")
	ErrStoryNotFound    = errors.New("story not found")
	ErrStoryNotInFolder = errors.New("story is not in this folder")
)
