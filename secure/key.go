package secure

import (
	"crypto/rand"
	"io"
	"log/slog"

	"github.com/chenjie199234/pkcs7/cerror"
)

const KeySize = 16 //128 bit
const IVSize = 16  //128 bit

var randReader io.Reader = rand.Reader

func MakeRandBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, cerror.ErrReq
	}
	buf := make([]byte, n)
	if _, e := io.ReadFull(randReader, buf); e != nil {
		slog.Error("[secure] read random source failed", slog.Int("length", n), slog.String("error", e.Error()))
		return nil, cerror.ErrRandSource
	}
	return buf, nil
}

func MakeKey() ([]byte, error) {
	return MakeRandBytes(KeySize)
}

func MakeIV() ([]byte, error) {
	return MakeRandBytes(IVSize)
}
