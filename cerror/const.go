package cerror

// business,start from 10000
var (
	ErrReq = &Error{Code: 10001, Msg: "request error"}
)

// padding,start from 20000
var (
	ErrInvalidBlockSize = &Error{Code: 20001, Msg: "block size must in [1,255]"}
	ErrPadding          = &Error{Code: 20002, Msg: "padding broken"}
	ErrRandSource       = &Error{Code: 20003, Msg: "random source failed"}
)
