package cerror

import (
	"encoding/json"
	"errors"

	"github.com/chenjie199234/pkcs7/util/common"
)

type Error struct {
	Code int64  `json:"code"`
	Msg  string `json:"msg"`
}

// GetCodeFromStdError returns 0 for nil,-1 if e carries no code
// wrapped errors are searched first,then e's text is parsed as this error's json format
func GetCodeFromStdError(e error) int64 {
	if e == nil {
		return 0
	}
	var ce *Error
	if errors.As(e, &ce) && ce != nil {
		return ce.Code
	}
	tempe := &Error{}
	if ee := json.Unmarshal(common.STB(e.Error()), tempe); ee != nil {
		return -1
	}
	return tempe.Code
}

func (this *Error) Error() string {
	if this == nil {
		return ""
	}
	d, _ := json.Marshal(this)
	return common.BTS(d)
}
