package sqlgen

import "errors"

// Build-time errors. These surface synchronously from Compile and
// GenerateCreateTable; they never reach the database.
var (
	ErrUnsupportedOperation  = errors.New("unsupported statement operation")
	ErrEmptyPayload          = errors.New("insert or update requires a non-empty payload")
	ErrJoinNotAllowed        = errors.New("joins are only supported on SELECT statements")
	ErrUnsupportedColumnType = errors.New("unsupported column type descriptor")
)
