// Copyright 2020 xgfone
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bencode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Decoding errors.
var (
	// ErrUnderflow is returned when the buffer ends before a value or
	// a declared byte string payload is complete.
	ErrUnderflow = errors.New("stream underflow")

	// ErrUnknownType is returned when the byte at a value position is
	// none of '0'-'9', 'i', 'l' or 'd'.
	ErrUnknownType = errors.New("unknown object type identifier")

	// ErrUnterminatedInteger is returned when an integer is not closed
	// by 'e', or contains a byte which is not a digit.
	ErrUnterminatedInteger = errors.New("integer not terminated by 'e'")

	// ErrInvalidInteger is returned when an integer has no digits,
	// such as "ie" or "i-e".
	ErrInvalidInteger = errors.New("invalid integer")

	// ErrInvalidLength is returned when the length prefix of a byte string
	// is not a decimal number terminated by ':'.
	ErrInvalidLength = errors.New("invalid byte string length")

	ErrLeadingZero  = errors.New("leading zeros are not allowed")
	ErrNegativeZero = errors.New("negative zero is not allowed")

	// ErrMalformedStructure is returned when a list or a dictionary
	// is not closed by 'e' before the end of the buffer.
	ErrMalformedStructure = errors.New("malformed structure")

	// ErrNonStringKey is returned when a dictionary key is not a byte string.
	ErrNonStringKey = errors.New("dict key is not a string")

	// ErrKeyOrder is returned when the dictionary keys are not strictly
	// ascending, which also covers the duplicated keys.
	ErrKeyOrder = errors.New("dict keys disordered")

	// ErrTrailingData is returned when some bytes remain after the value.
	ErrTrailingData = errors.New("junk in stream")

	// ErrDecodeEncoding is returned when a byte string is not valid text
	// under the configured text encoding.
	ErrDecodeEncoding = errors.New("invalid text in byte string")

	// ErrRecursionLimit is returned when lists and dictionaries are nested
	// deeper than the configured maximum depth.
	ErrRecursionLimit = errors.New("maximum nesting depth exceeded")
)

// Encoding and configuration errors.
var (
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnconfiguredTextEncoding is returned when encoding a text value
	// without a text encoding, see EncodeUTF8.
	ErrUnconfiguredTextEncoding = errors.New("string found but no encoding specified")

	// ErrUnsupportedEncoding is returned when a text encoding other than
	// UTF-8 is requested.
	ErrUnsupportedEncoding = errors.New("only utf-8 encoding is supported")
)

// SyntaxError describes the position and the cause of a decoding failure.
//
// Use errors.Is with the Err* variables to check the kind of the failure.
type SyntaxError struct {
	Offset int  // The offset in the input where the violation is detected.
	Byte   byte // The byte at Offset, or 0 at the end of the input.
	AtEOF  bool // Whether Offset is the end of the input.

	kind error
	msg  string
}

func newSyntaxError(buf []byte, offset int, kind error, msg string) *SyntaxError {
	e := &SyntaxError{Offset: offset, kind: kind, msg: msg}
	if offset < len(buf) {
		e.Byte = buf[offset]
	} else {
		e.AtEOF = true
	}
	return e
}

func (e *SyntaxError) Error() string {
	var msg string
	if e.msg == "" {
		msg = e.kind.Error()
	} else {
		msg = e.kind.Error() + ": " + e.msg
	}

	if e.AtEOF {
		return fmt.Sprintf("bencode: %s at offset %d (end of input)", msg, e.Offset)
	}
	return fmt.Sprintf("bencode: %s at offset %d (byte %s)", msg, e.Offset,
		strconv.Quote(string([]byte{e.Byte})))
}

// Unwrap returns the kind of the error, such as ErrKeyOrder.
func (e *SyntaxError) Unwrap() error { return e.kind }

// EncodeError describes a value which cannot be encoded.
type EncodeError struct {
	Type string // The Go type of the offending value, as printed by %T.

	kind error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("bencode: %s: %s", e.kind.Error(), e.Type)
}

// Unwrap returns the kind of the error, such as ErrUnsupportedType.
func (e *EncodeError) Unwrap() error { return e.kind }

func newEncodeError(v interface{}, kind error) *EncodeError {
	return &EncodeError{Type: fmt.Sprintf("%T", v), kind: kind}
}

func checkTextEncoding(name string) (string, error) {
	switch strings.ToLower(name) {
	case "":
		return "", nil
	case "utf-8", "utf8":
		return "utf-8", nil
	default:
		return "", errors.Wrapf(ErrUnsupportedEncoding, "bencode: text encoding %q", name)
	}
}
