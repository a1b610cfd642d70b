package demo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/chenjie199234/pkcs7/cerror"
	"github.com/chenjie199234/pkcs7/secure"
)

func Test_Run(t *testing.T) {
	buf := &bytes.Buffer{}
	sixteen := strings.Repeat("x", 16)
	Run(context.Background(), buf, []string{"", "abc", sixteen, "ção"})
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("want 5 lines got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "text has 71 bytes" {
		t.Fatalf("byte length line wrong: %s", lines[0])
	}
	want := []string{
		fmt.Sprintf("[%q] encode -> [%q] decode -> [%q]", "", strings.Repeat("\x10", 16), ""),
		fmt.Sprintf("[%q] encode -> [%q] decode -> [%q]", "abc", "abc"+strings.Repeat("\r", 13), "abc"),
		fmt.Sprintf("[%q] encode -> [%q] decode -> [%q]", sixteen, sixteen+strings.Repeat("\x10", 16), sixteen),
		fmt.Sprintf("[%q] encode -> [%q] decode -> [%q]", "ção", "ção"+strings.Repeat("\v", 11), "ção"),
	}
	for i, w := range want {
		if lines[i+1] != w {
			t.Fatalf("line %d: want %s got %s", i+1, w, lines[i+1])
		}
	}
}

func Test_RunNoArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	Run(context.Background(), buf, nil)
	if buf.String() != "text has 71 bytes\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func Test_RoundTrip(t *testing.T) {
	enc, e := secure.NewEncoder(4)
	if e != nil {
		t.Fatal(e)
	}
	line, e := RoundTrip(context.Background(), enc, "test")
	if e != nil {
		t.Fatal(e)
	}
	if line != `["test"] encode -> ["test\x04\x04\x04\x04"] decode -> ["test"]`+"\n" {
		t.Fatalf("unexpected line: %s", line)
	}
}

func Test_RoundTripsFailLogged(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)
	logbuf := &bytes.Buffer{}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logbuf, nil)))

	//zero value encoder has an unchecked block size 0
	enc := &secure.Encoder{}
	if _, e := RoundTrip(context.Background(), enc, "abc"); !errors.Is(e, cerror.ErrInvalidBlockSize) {
		t.Fatalf("want ErrInvalidBlockSize got %v", e)
	}
	out := &bytes.Buffer{}
	roundTrips(context.Background(), out, enc, []string{"abc"})
	if out.Len() != 0 {
		t.Fatalf("failed input should not be printed: %q", out.String())
	}
	m := make(map[string]any)
	if e := json.Unmarshal(logbuf.Bytes(), &m); e != nil {
		t.Fatal(e)
	}
	if m["msg"] != "[demo] round trip failed" || m["input"] != "abc" {
		t.Fatalf("unexpected log: %s", logbuf.String())
	}
	if m["code"] != float64(cerror.ErrInvalidBlockSize.Code) {
		t.Fatalf("log should carry the error code: %s", logbuf.String())
	}
}
