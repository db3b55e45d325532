// Package lljson contains functions that can be used to encode JSON tokens
// into a slice of bytes. These functions are aimed at allowing low level
// construction of JSON text and can be used to build a higher level JSON
// library.
//
// The Append* functions within this package will append the token to the
// given dst slice. If the slice has enough capacity, it will not grow the
// slice. This library attempts to do no validation beyond formatting: the
// structural correctness of the output, including the placement of commas
// and the rejection of values JSON cannot represent, is the consumers
// responsibility.
package lljson

import (
	"math"
	"strconv"
	"unicode/utf8"
)

const hexChars = "0123456789abcdef"

// AppendNull will append the null literal to dst and return the extended
// buffer.
func AppendNull(dst []byte) []byte { return append(dst, 'n', 'u', 'l', 'l') }

// AppendBoolean will append b to dst and return the extended buffer.
func AppendBoolean(dst []byte, b bool) []byte {
	if b {
		return append(dst, 't', 'r', 'u', 'e')
	}
	return append(dst, 'f', 'a', 'l', 's', 'e')
}

// AppendInt32 will append i32 to dst and return the extended buffer.
func AppendInt32(dst []byte, i32 int32) []byte {
	return strconv.AppendInt(dst, int64(i32), 10)
}

// AppendInt64 will append i64 to dst and return the extended buffer.
func AppendInt64(dst []byte, i64 int64) []byte {
	return strconv.AppendInt(dst, i64, 10)
}

// AppendDouble will append f to dst and return the extended buffer. The
// shortest representation that round-trips through a float64 is used, with
// the exponent form reserved for magnitudes outside [1e-6, 1e21). NaN and
// the infinities have no JSON token; passing one produces output a JSON
// parser will reject.
func AppendDouble(dst []byte, f float64) []byte {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		// strconv pads the exponent: e-09 becomes e-9.
		if n := len(dst); n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst
}

// AppendString will append s to dst as a quoted JSON string and return the
// extended buffer. The quote, backslash, and control characters are escaped;
// bytes that are not valid UTF-8 are replaced with the escaped replacement
// character. No characters are escaped for embedding inside HTML.
func AppendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); {
		if b := s[i]; b < utf8.RuneSelf {
			if b >= 0x20 && b != '"' && b != '\\' {
				i++
				continue
			}
			dst = append(dst, s[start:i]...)
			switch b {
			case '"':
				dst = append(dst, '\\', '"')
			case '\\':
				dst = append(dst, '\\', '\\')
			case '\n':
				dst = append(dst, '\\', 'n')
			case '\r':
				dst = append(dst, '\\', 'r')
			case '\t':
				dst = append(dst, '\\', 't')
			case '\b':
				dst = append(dst, '\\', 'b')
			case '\f':
				dst = append(dst, '\\', 'f')
			default:
				dst = append(dst, '\\', 'u', '0', '0', hexChars[b>>4], hexChars[b&0xF])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = append(dst, s[start:i]...)
			dst = append(dst, '\\', 'u', 'f', 'f', 'f', 'd')
			i += size
			start = i
			continue
		}
		i += size
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}

// AppendKey will append key to dst as a quoted object member name followed
// by the name separator and return the extended buffer.
func AppendKey(dst []byte, key string) []byte {
	dst = AppendString(dst, key)
	return append(dst, ':')
}
