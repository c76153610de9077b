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
	"math"
	"math/big"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Value is a bencoded value. It is implemented only by the types
// in this package:
//
//   - Integer
//   - Bytes and Text, the byte string
//   - List and Tuple, the list
//   - Dict, the dictionary
//   - Precomputed, which can only be encoded
type Value interface {
	bencodeValue()
}

func (Integer) bencodeValue()     {}
func (Bytes) bencodeValue()       {}
func (Text) bencodeValue()        {}
func (List) bencodeValue()        {}
func (Tuple) bencodeValue()       {}
func (Dict) bencodeValue()        {}
func (Precomputed) bencodeValue() {}

// Bytes is a raw byte string.
type Bytes []byte

func (b Bytes) String() string { return string(b) }

// Text is a byte string interpreted as UTF-8 text.
type Text string

// List is an ordered list of values.
type List []Value

// Tuple is an ordered list of values returned by DecodeAsTuple.
//
// It is encoded exactly like List.
type Tuple []Value

// Dict is a dictionary. The keys are the raw bytes of the byte string keys.
type Dict map[string]Value

// Precomputed is an already bencoded value, which is appended to the output
// verbatim by the encoder without being parsed or validated.
type Precomputed []byte

// Bytes returns the wrapped bytes unchanged.
func (p Precomputed) Bytes() []byte { return p }

/// >>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>

// Integer is an arbitrary-precision integer.
//
// The values in the int64 range are stored inline, and only the others
// allocate a big.Int, so the zero value is the integer 0 and two equal
// integers always have the same representation.
type Integer struct {
	small int64
	big   *big.Int // nil if the value fits in int64
}

// NewInteger returns a new Integer with the value i.
func NewInteger(i int64) Integer { return Integer{small: i} }

// NewBigInteger returns a new Integer with the value of i, which is copied.
//
// A nil i is regarded as 0.
func NewBigInteger(i *big.Int) Integer {
	if i == nil {
		return Integer{}
	} else if i.IsInt64() {
		return Integer{small: i.Int64()}
	}
	return Integer{big: new(big.Int).Set(i)}
}

// ParseInteger parses the canonical decimal form of an integer,
// that's, the digits between 'i' and 'e'.
func ParseInteger(s string) (Integer, error) {
	v, err := Decode([]byte("i" + s + "e"))
	if err != nil {
		return Integer{}, err
	}
	return v.(Integer), nil
}

func parseDigits(s string) (Integer, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Integer{small: n}, nil
	} else if !errors.Is(err, strconv.ErrRange) {
		return Integer{}, err
	}

	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Integer{}, errors.Newf("invalid integer %q", s)
	}
	return Integer{big: b}, nil
}

// IsInt64 reports whether the integer fits in int64.
func (i Integer) IsInt64() bool { return i.big == nil }

// Int64 returns the integer as int64 and whether it fits in int64.
func (i Integer) Int64() (int64, bool) {
	if i.big != nil {
		return 0, false
	}
	return i.small, true
}

// BigInt returns a new big.Int with the value of the integer.
func (i Integer) BigInt() *big.Int {
	if i.big != nil {
		return new(big.Int).Set(i.big)
	}
	return big.NewInt(i.small)
}

// Sign returns -1, 0 or 1 for the negative, zero or positive integer.
func (i Integer) Sign() int {
	switch {
	case i.big != nil:
		return i.big.Sign()
	case i.small < 0:
		return -1
	case i.small > 0:
		return 1
	default:
		return 0
	}
}

// Neg returns the negation of the integer.
func (i Integer) Neg() Integer {
	if i.big == nil && i.small != math.MinInt64 {
		return Integer{small: -i.small}
	}
	return NewBigInteger(new(big.Int).Neg(i.BigInt()))
}

// Cmp compares i and o and returns -1, 0 or 1.
func (i Integer) Cmp(o Integer) int {
	if i.big == nil && o.big == nil {
		switch {
		case i.small < o.small:
			return -1
		case i.small > o.small:
			return 1
		default:
			return 0
		}
	}
	return i.BigInt().Cmp(o.BigInt())
}

// Equal reports whether i is equal to o.
func (i Integer) Equal(o Integer) bool { return i.Cmp(o) == 0 }

// String returns the canonical decimal form of the integer.
func (i Integer) String() string { return string(i.appendDecimal(nil)) }

func (i Integer) appendDecimal(b []byte) []byte {
	if i.big != nil {
		return i.big.Append(b, 10)
	}
	return strconv.AppendInt(b, i.small, 10)
}
