package common

import (
	"unicode/utf8"
	"unsafe"
)

// STB returns the string's bytes without copy
// the result must not be modified
func STB(data string) []byte {
	if data == "" {
		return []byte{}
	}
	return unsafe.Slice(unsafe.StringData(data), len(data))
}

// BTS returns the bytes as a string without copy
// data must not be modified after this call
func BTS(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(data), len(data))
}

// ByteLen returns the utf-8 encoded length of data
// invalid utf-8 sequences are counted as the 3 byte replacement character
func ByteLen(data string) int {
	if utf8.ValidString(data) {
		return len(data)
	}
	n := 0
	for _, r := range data {
		n += utf8.RuneLen(r)
	}
	return n
}
