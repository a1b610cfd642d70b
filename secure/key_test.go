package secure

import (
	"bytes"
	"errors"
	"testing"

	"github.com/chenjie199234/pkcs7/cerror"
)

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("broken")
}

func Test_MakeKey(t *testing.T) {
	key, e := MakeKey()
	if e != nil {
		t.Fatal(e)
	}
	iv, e := MakeIV()
	if e != nil {
		t.Fatal(e)
	}
	if len(key) != KeySize || len(iv) != IVSize {
		t.Fatal("length wrong")
	}
	if bytes.Equal(key, iv) {
		t.Fatal("key and iv should differ")
	}
}

func Test_MakeRandBytes(t *testing.T) {
	if b, e := MakeRandBytes(0); e != nil || len(b) != 0 {
		t.Fatal("zero length should succeed")
	}
	if _, e := MakeRandBytes(-1); !errors.Is(e, cerror.ErrReq) {
		t.Fatal("negative length should fail")
	}
	old := randReader
	randReader = brokenReader{}
	defer func() { randReader = old }()
	if _, e := MakeKey(); !errors.Is(e, cerror.ErrRandSource) {
		t.Fatalf("want ErrRandSource got %v", e)
	}
}
