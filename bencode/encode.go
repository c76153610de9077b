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
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// EncodeOptions is used to configure the encoder.
type EncodeOptions struct {
	// TextEncoding is the encoding used to encode Text and the Go strings.
	// Only "utf-8" is supported. If empty, encoding them fails
	// with ErrUnconfiguredTextEncoding.
	TextEncoding string

	// MaxDepth is the maximum nesting depth of lists and dictionaries.
	//
	// The default is DefaultMaxDepth.
	MaxDepth int
}

func (o *EncodeOptions) set() (err error) {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	o.TextEncoding, err = checkTextEncoding(o.TextEncoding)
	return
}

// Encoder encodes the values into an in-memory buffer in the canonical form.
//
// An Encoder must not be used by more than one goroutine at a time.
type Encoder struct {
	buf   []byte
	depth int
	opts  EncodeOptions
}

// NewEncoder returns a new Encoder with the options.
func NewEncoder(opts EncodeOptions) (*Encoder, error) {
	if err := opts.set(); err != nil {
		return nil, err
	}
	return &Encoder{opts: opts}, nil
}

// Encode encodes v in the canonical form.
//
// Go strings and Text are rejected with ErrUnconfiguredTextEncoding,
// use EncodeUTF8 to encode them.
func Encode(v interface{}) ([]byte, error) {
	return EncodeWithOptions(v, EncodeOptions{})
}

// EncodeUTF8 is the same as Encode, but encodes Go strings and Text
// as byte strings of their UTF-8 bytes.
func EncodeUTF8(v interface{}) ([]byte, error) {
	return EncodeWithOptions(v, EncodeOptions{TextEncoding: "utf-8"})
}

// EncodeString is the same as Encode, but returns a string.
func EncodeString(v interface{}) (string, error) {
	b, err := Encode(v)
	return string(b), err
}

// MustEncode is the same as Encode, but panics if there is an error.
func MustEncode(v interface{}) []byte {
	b, err := Encode(v)
	if err != nil {
		panic(err)
	}
	return b
}

// EncodeWithOptions encodes v in the canonical form with the options.
func EncodeWithOptions(v interface{}, opts EncodeOptions) ([]byte, error) {
	e, err := NewEncoder(opts)
	if err != nil {
		return nil, err
	} else if err = e.Encode(v); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Bytes returns the encoded bytes. The result aliases the internal buffer
// and is only valid until the next call of Encode or Reset.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the number of the encoded bytes.
func (e *Encoder) Len() int { return len(e.buf) }

// Reset discards the encoded bytes and keeps the buffer for reuse.
func (e *Encoder) Reset() { e.buf, e.depth = e.buf[:0], 0 }

// Encode appends the canonical encoding of v to the buffer.
//
// The Go types are encoded in the order below, and the first matched wins:
//
//   - Bytes, []byte and the other byte slices or arrays as byte strings;
//   - Integer, int, int8, int16, int32, int64, uint, uint8, uint16, uint32,
//     uint64 and their named types as integers;
//   - *big.Int as integer;
//   - List, Tuple, []Value, []interface{} and the other slices or arrays
//     as lists;
//   - Dict, map[string]Value, map[string]interface{} and the other maps
//     whose keys are strings or byte arrays as dictionaries, whose keys
//     are sorted by their raw bytes;
//   - bool as the integer 0 or 1;
//   - Precomputed is appended verbatim;
//   - Text, string and their named types as byte strings, only if the text
//     encoding is configured.
//
// Others, including nil, return an error wrapping ErrUnsupportedType.
// If failing, the buffer is restored to the state before the call.
func (e *Encoder) Encode(v interface{}) (err error) {
	mark := len(e.buf)
	if err = e.encode(v); err != nil {
		e.buf, e.depth = e.buf[:mark], 0
	}
	return
}

func (e *Encoder) encode(v interface{}) error {
	switch x := v.(type) {
	case Bytes:
		e.writeBytes(x)
	case []byte:
		e.writeBytes(x)

	case Integer:
		e.writeInteger(x)
	case int:
		e.writeInt(int64(x))
	case int8:
		e.writeInt(int64(x))
	case int16:
		e.writeInt(int64(x))
	case int32:
		e.writeInt(int64(x))
	case int64:
		e.writeInt(x)
	case uint:
		e.writeUint(uint64(x))
	case uint8:
		e.writeUint(uint64(x))
	case uint16:
		e.writeUint(uint64(x))
	case uint32:
		e.writeUint(uint64(x))
	case uint64:
		e.writeUint(x)
	case *big.Int:
		if x == nil {
			return newEncodeError(v, ErrUnsupportedType)
		}
		e.writeBigInt(x)

	case List:
		return e.encodeList(v, len(x), func(i int) interface{} { return x[i] })
	case Tuple:
		return e.encodeList(v, len(x), func(i int) interface{} { return x[i] })
	case []Value:
		return e.encodeList(v, len(x), func(i int) interface{} { return x[i] })
	case []interface{}:
		return e.encodeList(v, len(x), func(i int) interface{} { return x[i] })

	case Dict:
		return encodeStringMap(e, map[string]Value(x))
	case map[string]Value:
		return encodeStringMap(e, x)
	case map[string]interface{}:
		return encodeStringMap(e, x)

	case bool:
		if x {
			e.buf = append(e.buf, "i1e"...)
		} else {
			e.buf = append(e.buf, "i0e"...)
		}

	case Precomputed:
		e.buf = append(e.buf, x...)

	case Text:
		return e.encodeText(v, string(x))
	case string:
		return e.encodeText(v, x)

	case nil:
		return newEncodeError(v, ErrUnsupportedType)
	default:
		return e.encodeReflect(v)
	}

	return nil
}

func (e *Encoder) encodeReflect(v interface{}) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			e.writeBytes(byteArray(rv))
			return nil
		}
		return e.encodeList(v, rv.Len(), func(i int) interface{} { return rv.Index(i).Interface() })

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.writeInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		e.writeUint(rv.Uint())

	case reflect.Map:
		return e.encodeMap(v, rv)

	case reflect.Bool:
		return e.encode(rv.Bool())

	case reflect.String:
		return e.encodeText(v, rv.String())

	default:
		return newEncodeError(v, ErrUnsupportedType)
	}

	return nil
}

func (e *Encoder) encodeText(v interface{}, s string) error {
	if e.opts.TextEncoding == "" {
		return newEncodeError(v, ErrUnconfiguredTextEncoding)
	}
	e.writeString(s)
	return nil
}

func (e *Encoder) enter(v interface{}) error {
	if e.depth++; e.depth > e.opts.MaxDepth {
		return newEncodeError(v, ErrRecursionLimit)
	}
	return nil
}

func (e *Encoder) leave() { e.depth-- }

func (e *Encoder) encodeList(v interface{}, n int, index func(int) interface{}) (err error) {
	if err = e.enter(v); err != nil {
		return
	}
	defer e.leave()

	e.buf = append(e.buf, 'l')
	for i := 0; i < n; i++ {
		if err = e.encode(index(i)); err != nil {
			return
		}
	}
	e.buf = append(e.buf, 'e')
	return
}

func encodeStringMap[V any](e *Encoder, m map[string]V) (err error) {
	if err = e.enter(m); err != nil {
		return
	}
	defer e.leave()

	keys := maps.Keys(m)
	slices.Sort(keys)

	e.buf = append(e.buf, 'd')
	for _, key := range keys {
		e.writeString(key)
		if err = e.encode(m[key]); err != nil {
			return
		}
	}
	e.buf = append(e.buf, 'e')
	return
}

type mapEntry struct {
	key   string
	value reflect.Value
}

func (e *Encoder) encodeMap(v interface{}, rv reflect.Value) (err error) {
	if err = e.enter(v); err != nil {
		return
	}
	defer e.leave()

	entries := make([]mapEntry, 0, rv.Len())
	for iter := rv.MapRange(); iter.Next(); {
		k := iter.Key()
		if k.Kind() == reflect.Interface && !k.IsNil() {
			k = k.Elem()
		}

		switch {
		case k.Kind() == reflect.String:
			entries = append(entries, mapEntry{key: k.String(), value: iter.Value()})
		case k.Kind() == reflect.Array && k.Type().Elem().Kind() == reflect.Uint8:
			entries = append(entries, mapEntry{key: string(byteArray(k)), value: iter.Value()})
		default:
			return newEncodeError(k.Interface(), ErrNonStringKey)
		}
	}

	slices.SortFunc(entries, func(a, b mapEntry) int { return strings.Compare(a.key, b.key) })

	e.buf = append(e.buf, 'd')
	for _, entry := range entries {
		e.writeString(entry.key)
		if err = e.encode(entry.value.Interface()); err != nil {
			return
		}
	}
	e.buf = append(e.buf, 'e')
	return
}

func (e *Encoder) writeBytes(b []byte) {
	e.buf = strconv.AppendInt(e.buf, int64(len(b)), 10)
	e.buf = append(e.buf, ':')
	e.buf = append(e.buf, b...)
}

func (e *Encoder) writeString(s string) {
	e.buf = strconv.AppendInt(e.buf, int64(len(s)), 10)
	e.buf = append(e.buf, ':')
	e.buf = append(e.buf, s...)
}

func (e *Encoder) writeInt(i int64) {
	e.buf = append(e.buf, 'i')
	e.buf = strconv.AppendInt(e.buf, i, 10)
	e.buf = append(e.buf, 'e')
}

func (e *Encoder) writeUint(i uint64) {
	e.buf = append(e.buf, 'i')
	e.buf = strconv.AppendUint(e.buf, i, 10)
	e.buf = append(e.buf, 'e')
}

func (e *Encoder) writeBigInt(i *big.Int) {
	e.buf = append(e.buf, 'i')
	e.buf = i.Append(e.buf, 10)
	e.buf = append(e.buf, 'e')
}

func (e *Encoder) writeInteger(i Integer) {
	e.buf = append(e.buf, 'i')
	e.buf = i.appendDecimal(e.buf)
	e.buf = append(e.buf, 'e')
}

func byteArray(rv reflect.Value) []byte {
	if rv.Kind() == reflect.Slice {
		return rv.Bytes()
	}

	b := make([]byte, rv.Len())
	for i := range b {
		b[i] = byte(rv.Index(i).Uint())
	}
	return b
}
