package errno

import "errors"

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// WithMessage 复制错误码并替换提示信息 (例如附带底层错误原因)
func (e Errno) WithMessage(msg string) Errno {
	return Errno{Code: e.Code, Message: msg}
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var ptr *Errno
	if errors.As(err, &ptr) {
		return ptr.Code, ptr.Message
	}
	var val Errno
	if errors.As(err, &val) {
		return val.Code, val.Message
	}
	return InternalServerError.Code, err.Error()
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrTokenInvalid     = Errno{Code: 10003, Message: "Token invalid"}
	ErrDatabase         = Errno{Code: 10004, Message: "Database error"}
)

// Business Errors (30000+: 钱包操作)
var (
	ErrSigningFailed    = Errno{Code: 30101, Message: "Transaction signing failed"}
	ErrSubmissionFailed = Errno{Code: 30102, Message: "Transaction batch submission failed"}
	ErrWalletRejected   = Errno{Code: 30103, Message: "Wallet rejected the operation"}
	ErrWalletBusy       = Errno{Code: 30104, Message: "Another operation is in progress for this wallet"}
	ErrTxNotFound       = Errno{Code: 30201, Message: "Transaction not tracked"}
)
