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
	"bytes"
	"strconv"
	"unicode/utf8"
)

// DefaultMaxDepth is the default maximum nesting depth of lists
// and dictionaries accepted by the decoder and the encoder.
const DefaultMaxDepth = 512

// maxFastDigits is the number of the decimal digits which always fit in int64.
const maxFastDigits = 18

// DecodeOptions is used to configure the decoder.
type DecodeOptions struct {
	// If true, decode the lists as Tuple instead of List.
	AsTuples bool

	// TextEncoding is the encoding used to decode the byte strings as Text.
	// Only "utf-8" is supported. If empty, the byte strings are decoded
	// as Bytes.
	TextEncoding string

	// MaxDepth is the maximum nesting depth of lists and dictionaries.
	//
	// The default is DefaultMaxDepth.
	MaxDepth int
}

func (o *DecodeOptions) set() (err error) {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	o.TextEncoding, err = checkTextEncoding(o.TextEncoding)
	return
}

// decoder decodes the values from an in-memory buffer. It's used only
// once, for a single call of DecodeWithOptions.
type decoder struct {
	buf   []byte
	pos   int
	depth int
	opts  DecodeOptions
}

// Decode decodes exactly one value from b, decoding the lists as List
// and the byte strings as Bytes.
func Decode(b []byte) (Value, error) {
	return DecodeWithOptions(b, DecodeOptions{})
}

// DecodeAsTuple is the same as Decode, but decodes the lists as Tuple.
func DecodeAsTuple(b []byte) (Value, error) {
	return DecodeWithOptions(b, DecodeOptions{AsTuples: true})
}

// DecodeUTF8 is the same as Decode, but decodes the byte strings as Text
// and returns an error wrapping ErrDecodeEncoding if one of them,
// including the dictionary keys, is not valid UTF-8.
func DecodeUTF8(b []byte) (Value, error) {
	return DecodeWithOptions(b, DecodeOptions{TextEncoding: "utf-8"})
}

// DecodeString is the same as Decode, but decodes a string.
func DecodeString(s string) (Value, error) { return Decode([]byte(s)) }

// DecodeWithOptions decodes exactly one value from b with the options.
//
// It returns an error wrapping ErrTrailingData if b has any bytes
// after the value.
func DecodeWithOptions(b []byte, opts DecodeOptions) (v Value, err error) {
	if err = opts.set(); err != nil {
		return
	}

	d := decoder{buf: b, opts: opts}
	if v, err = d.decodeOne(); err != nil {
		return nil, err
	}

	if d.pos < len(d.buf) {
		return nil, d.errorf(d.pos, ErrTrailingData, "")
	}
	return
}

// Valid reports whether b is exactly one value in the canonical form.
func Valid(b []byte) bool {
	_, err := Decode(b)
	return err == nil
}

func (d *decoder) errorf(offset int, kind error, msg string) error {
	return newSyntaxError(d.buf, offset, kind, msg)
}

func (d *decoder) decodeOne() (Value, error) {
	if d.pos >= len(d.buf) {
		return nil, d.errorf(d.pos, ErrUnderflow, "")
	}

	switch c := d.buf[d.pos]; c {
	case 'i':
		return d.decodeInt()
	case 'l':
		return d.decodeList()
	case 'd':
		return d.decodeDict()
	default:
		if isDigit(c) {
			return d.decodeBytes()
		}
		return nil, d.errorf(d.pos, ErrUnknownType, "")
	}
}

func (d *decoder) enter() error {
	if d.depth++; d.depth > d.opts.MaxDepth {
		return d.errorf(d.pos, ErrRecursionLimit,
			"the limit is "+strconv.Itoa(d.opts.MaxDepth))
	}
	return nil
}

func (d *decoder) leave() { d.depth-- }

// decodeInt decodes the integer starting at 'i'.
func (d *decoder) decodeInt() (Value, error) {
	start := d.pos + 1
	end := start
	if end < len(d.buf) && d.buf[end] == '-' {
		end++
	}
	digitStart := end
	for end < len(d.buf) && isDigit(d.buf[end]) {
		end++
	}

	if end >= len(d.buf) {
		return nil, d.errorf(end, ErrUnterminatedInteger, "")
	} else if d.buf[end] != 'e' {
		return nil, d.errorf(end, ErrUnterminatedInteger, "unexpected byte in integer")
	}

	digits := d.buf[digitStart:end]
	negative := digitStart > start
	switch {
	case len(digits) == 0:
		return nil, d.errorf(start, ErrInvalidInteger, "no digits")
	case digits[0] == '0' && len(digits) > 1:
		return nil, d.errorf(digitStart, ErrLeadingZero, "")
	case negative && digits[0] == '0':
		return nil, d.errorf(start, ErrNegativeZero, "")
	}

	var v Integer
	if len(digits) <= maxFastDigits {
		var n int64
		for _, c := range digits {
			n = n*10 + int64(c-'0')
		}
		if negative {
			n = -n
		}
		v = Integer{small: n}
	} else {
		var err error
		if v, err = parseDigits(string(d.buf[start:end])); err != nil {
			return nil, d.errorf(start, ErrInvalidInteger, err.Error())
		}
	}

	d.pos = end + 1
	return v, nil
}

// readBytes reads the byte string starting at the first digit of its length
// and returns the payload, which is a sub-slice of the buffer.
func (d *decoder) readBytes() ([]byte, error) {
	start := d.pos
	colon := start
	for colon < len(d.buf) && isDigit(d.buf[colon]) {
		colon++
	}

	if colon >= len(d.buf) || d.buf[colon] != ':' {
		return nil, d.errorf(colon, ErrInvalidLength, "length not terminated by ':'")
	} else if colon == start {
		return nil, d.errorf(start, ErrInvalidLength, "no digits")
	} else if d.buf[start] == '0' && colon-start > 1 {
		return nil, d.errorf(start, ErrLeadingZero, "")
	}

	length, err := strconv.ParseUint(string(d.buf[start:colon]), 10, 63)
	if err != nil {
		return nil, d.errorf(start, ErrInvalidLength, "length out of range")
	}

	payload := colon + 1
	if length > uint64(len(d.buf)-payload) {
		return nil, d.errorf(payload, ErrUnderflow, "declared length "+
			strconv.FormatUint(length, 10)+" exceeds the remaining bytes")
	}

	d.pos = payload + int(length)
	return d.buf[payload:d.pos], nil
}

func (d *decoder) decodeBytes() (Value, error) {
	start := d.pos
	b, err := d.readBytes()
	if err != nil {
		return nil, err
	}

	if d.opts.TextEncoding != "" {
		if !utf8.Valid(b) {
			return nil, d.errorf(start, ErrDecodeEncoding, "invalid utf-8")
		}
		return Text(b), nil
	}

	return Bytes(append(make([]byte, 0, len(b)), b...)), nil
}

// decodeList decodes the list starting at 'l'.
func (d *decoder) decodeList() (Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	start := d.pos
	d.pos++

	values := make([]Value, 0, 4)
	for {
		if d.pos >= len(d.buf) {
			return nil, d.errorf(start, ErrMalformedStructure, "list is not closed")
		} else if d.buf[d.pos] == 'e' {
			break
		}

		v, err := d.decodeOne()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	d.pos++

	if d.opts.AsTuples {
		return Tuple(values), nil
	}
	return List(values), nil
}

// decodeDict decodes the dictionary starting at 'd'.
func (d *decoder) decodeDict() (Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	start := d.pos
	d.pos++

	dict := make(Dict)
	var lastKey []byte
	for {
		if d.pos >= len(d.buf) {
			return nil, d.errorf(start, ErrMalformedStructure, "dict is not closed")
		}

		c := d.buf[d.pos]
		if c == 'e' {
			break
		} else if !isDigit(c) {
			return nil, d.errorf(d.pos, ErrNonStringKey, "")
		}

		keyStart := d.pos
		key, err := d.readBytes()
		if err != nil {
			return nil, err
		}

		if lastKey != nil && bytes.Compare(lastKey, key) >= 0 {
			return nil, d.errorf(keyStart, ErrKeyOrder,
				strconv.Quote(string(key))+" is not after "+strconv.Quote(string(lastKey)))
		}
		if d.opts.TextEncoding != "" && !utf8.Valid(key) {
			return nil, d.errorf(keyStart, ErrDecodeEncoding, "invalid utf-8 dict key")
		}
		lastKey = key

		value, err := d.decodeOne()
		if err != nil {
			return nil, err
		}
		dict[string(key)] = value
	}
	d.pos++

	return dict, nil
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
