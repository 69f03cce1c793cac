package upload

import "errors"

var (
	ErrEmptyFile       = errors.New("the uploaded file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrUnsupportedFile = errors.New("only Excel files (.xlsx) are supported")
	ErrUnreadableFile  = errors.New("failed to read workbook")
)
