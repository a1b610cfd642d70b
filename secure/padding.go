package secure

import (
	"bytes"

	"github.com/chenjie199234/pkcs7/cerror"
)

const DefaultBlockSize = 16

func checkBlockSize(size int) error {
	if size < 1 || size > 255 {
		return cerror.ErrInvalidBlockSize
	}
	return nil
}

// PKCS#7
// origin will not be modified,the returned slice never shares memory with origin
// if len(origin) is already a multiple of size,a full block of padding is added
func Padding(origin []byte, size int) ([]byte, error) {
	if e := checkBlockSize(size); e != nil {
		return nil, e
	}
	padding := size - len(origin)%size
	result := make([]byte, len(origin), len(origin)+padding)
	copy(result, origin)
	return append(result, bytes.Repeat([]byte{byte(padding)}, padding)...), nil
}

// PKCS#7
// the returned slice shares memory with origin
func Unpadding(origin []byte, size int) ([]byte, error) {
	if e := checkBlockSize(size); e != nil {
		return nil, e
	}
	length := len(origin)
	if length == 0 {
		return nil, cerror.ErrPadding
	}
	unpadding := int(origin[length-1])
	if unpadding == 0 || unpadding > size || unpadding > length {
		return nil, cerror.ErrPadding
	}
	for _, v := range origin[length-unpadding:] {
		if int(v) != unpadding {
			return nil, cerror.ErrPadding
		}
	}
	return origin[:length-unpadding], nil
}

// Encoder binds a checked block size
type Encoder struct {
	size int
}

func NewEncoder(size int) (*Encoder, error) {
	if e := checkBlockSize(size); e != nil {
		return nil, e
	}
	return &Encoder{size: size}, nil
}
func (e *Encoder) BlockSize() int {
	return e.size
}
func (e *Encoder) Encode(origin []byte) ([]byte, error) {
	return Padding(origin, e.size)
}
func (e *Encoder) Decode(padded []byte) ([]byte, error) {
	return Unpadding(padded, e.size)
}
