package errs

// Authentication failure codes. The Msg is the identifier surfaced to the
// client in the connect_error payload; clients switch on it.
const (
	CodeNoToken      = 1101
	CodeInvalidToken = 1102
	CodeTokenExpired = 1103
	CodeUserNotFound = 1104
)

var (
	ErrNoToken      = NewCodeError(CodeNoToken, "NO_TOKEN")
	ErrInvalidToken = NewCodeError(CodeInvalidToken, "INVALID_TOKEN")
	ErrTokenExpired = NewCodeError(CodeTokenExpired, "TOKEN_EXPIRED")
	ErrUserNotFound = NewCodeError(CodeUserNotFound, "USER_NOT_FOUND")
)
