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
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

type port uint16

type name string

type infoHash [4]byte

func TestEncode(t *testing.T) {
	bigInt, _ := new(big.Int).SetString("12345678901234567890", 10)
	negBigInt, _ := new(big.Int).SetString("-12345678901234567890", 10)

	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"zero", 0, "i0e"},
		{"int", 4, "i4e"},
		{"negative", -10, "i-10e"},
		{"int8", int8(-128), "i-128e"},
		{"int16", int16(300), "i300e"},
		{"int32", int32(-70000), "i-70000e"},
		{"int64", int64(math.MinInt64), "i-9223372036854775808e"},
		{"uint8", uint8(255), "i255e"},
		{"uint32", uint32(math.MaxUint32), "i4294967295e"},
		{"uint64", uint64(math.MaxUint64), "i18446744073709551615e"},
		{"named int", port(6881), "i6881e"},
		{"Integer", NewInteger(42), "i42e"},
		{"big.Int", bigInt, "i12345678901234567890e"},
		{"negative big.Int", negBigInt, "i-12345678901234567890e"},
		{"small big.Int", big.NewInt(-3), "i-3e"},
		{"big Integer", NewBigInteger(bigInt), "i12345678901234567890e"},

		{"true", true, "i1e"},
		{"false", false, "i0e"},

		{"empty bytes", []byte{}, "0:"},
		{"nil bytes", []byte(nil), "0:"},
		{"bytes", []byte("spam"), "4:spam"},
		{"Bytes", Bytes("1234567890"), "10:1234567890"},
		{"byte array", infoHash{'a', 'b', 'c', 'd'}, "4:abcd"},

		{"empty list", List{}, "le"},
		{"list", List{NewInteger(1), NewInteger(2), NewInteger(3)}, "li1ei2ei3ee"},
		{"tuple", Tuple{Tuple{Bytes("Alice"), Bytes("Bob")}, Tuple{NewInteger(2), NewInteger(3)}},
			"ll5:Alice3:Bobeli2ei3eee"},
		{"interface list", []interface{}{[]byte("Alice"), 2, []int{3, 4}}, "l5:Alicei2eli3ei4eee"},
		{"value list", []Value{Bytes("x"), Dict{}}, "l1:xdee"},
		{"int array", [3]int{1, 2, 3}, "li1ei2ei3ee"},

		{"empty dict", Dict{}, "de"},
		{"dict", Dict{"foo": NewInteger(2), "bar": NewInteger(1)}, "d3:bari1e3:fooi2ee"},
		{"nested dict", map[string]interface{}{
			"spam.mp3": map[string]interface{}{"length": 100000, "author": []byte("Alice")},
		}, "d8:spam.mp3d6:author5:Alice6:lengthi100000eee"},
		{"raw byte order", Dict{"\xff": NewInteger(1), "\x00": NewInteger(0), "a": NewInteger(2)},
			"d1:\x00i0e1:ai2e1:\xffi1ee"},
		{"prefix order", Dict{"aa": Bytes(""), "b": Bytes(""), "a": Bytes("")}, "d1:a0:2:aa0:1:b0:e"},
		{"typed map", map[string]int{"b": 2, "a": 1}, "d1:ai1e1:bi2ee"},
		{"named key map", map[name]int64{"z": 26, "y": 25}, "d1:yi25e1:zi26ee"},
		{"array key map", map[infoHash]bool{{'b', 'b', 'b', 'b'}: true, {'a', 'a', 'a', 'a'}: false},
			"d4:aaaai0e4:bbbbi1ee"},
		{"interface key map", map[interface{}]int{"b": 2, "a": 1}, "d1:ai1e1:bi2ee"},

		{"precomputed", Precomputed("i5e"), "i5e"},
		{"precomputed in list", List{Precomputed("d3:fooi1ee"), NewInteger(2)}, "ld3:fooi1eei2ee"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := Encode(test.input)
			require.NoError(t, err)
			require.Equal(t, test.expected, string(b))
		})
	}
}

func TestEncodeUTF8(t *testing.T) {
	b, err := EncodeUTF8(map[string]interface{}{
		"name":  "été",
		"alias": Text("spam"),
		"tags":  []string{"a", "b"},
		"kind":  name("x"),
	})
	require.NoError(t, err)
	require.Equal(t, "d5:alias4:spam4:kind1:x4:name5:\xc3\xa9t\xc3\xa94:tagsl1:a1:bee", string(b))

	_, err = EncodeWithOptions("abc", EncodeOptions{TextEncoding: "latin-1"})
	require.True(t, errors.Is(err, ErrUnsupportedEncoding), "%v", err)

	_, err = NewEncoder(EncodeOptions{TextEncoding: "utf-16"})
	require.True(t, errors.Is(err, ErrUnsupportedEncoding), "%v", err)
}

func TestEncodeErrors(t *testing.T) {
	cyclic := []interface{}{nil}
	cyclic[0] = cyclic

	tests := []struct {
		name  string
		input interface{}
		kind  error
		typ   string
	}{
		{"nil", nil, ErrUnsupportedType, "<nil>"},
		{"float", 1.5, ErrUnsupportedType, "float64"},
		{"struct", struct{}{}, ErrUnsupportedType, "struct {}"},
		{"func", func() {}, ErrUnsupportedType, "func()"},
		{"nil big.Int", (*big.Int)(nil), ErrUnsupportedType, "*big.Int"},
		{"pointer", new(int), ErrUnsupportedType, "*int"},
		{"nil in list", List{nil}, ErrUnsupportedType, "<nil>"},
		{"float in dict", map[string]interface{}{"a": 1.5}, ErrUnsupportedType, "float64"},

		{"string", "ie", ErrUnconfiguredTextEncoding, "string"},
		{"Text", Text("abc"), ErrUnconfiguredTextEncoding, "bencode.Text"},
		{"named string", name("abc"), ErrUnconfiguredTextEncoding, "bencode.name"},
		{"string in list", []string{"a"}, ErrUnconfiguredTextEncoding, "string"},

		{"int key", map[int][]byte{1: []byte("foo")}, ErrNonStringKey, "int"},
		{"interface int key", map[interface{}]int{1: 1}, ErrNonStringKey, "int"},

		{"cyclic list", cyclic, ErrRecursionLimit, "[]interface {}"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := Encode(test.input)
			require.Nil(t, b)
			require.True(t, errors.Is(err, test.kind), "unexpected error: %v", err)

			var eerr *EncodeError
			require.True(t, errors.As(err, &eerr))
			require.Equal(t, test.typ, eerr.Type)
			require.Contains(t, err.Error(), test.typ)
		})
	}
}

func TestEncodeMaxDepth(t *testing.T) {
	top := List{}
	for i := 0; i < 1000; i++ {
		top = List{top}
	}
	_, err := Encode(top)
	require.True(t, errors.Is(err, ErrRecursionLimit), "%v", err)

	dict := Dict{}
	for i := 0; i < 1000; i++ {
		dict = Dict{"": dict}
	}
	_, err = Encode(dict)
	require.True(t, errors.Is(err, ErrRecursionLimit), "%v", err)

	b, err := EncodeWithOptions(top, EncodeOptions{MaxDepth: 2000})
	require.NoError(t, err)
	require.Len(t, b, 2002)
}

func TestEncoder(t *testing.T) {
	e, err := NewEncoder(EncodeOptions{})
	require.NoError(t, err)

	require.NoError(t, e.Encode(NewInteger(1)))
	require.NoError(t, e.Encode(Bytes("ab")))
	require.Equal(t, "i1e2:ab", string(e.Bytes()))

	// A failed Encode leaves the buffer untouched.
	require.Error(t, e.Encode([]interface{}{NewInteger(3), 1.5}))
	require.Equal(t, "i1e2:ab", string(e.Bytes()))
	require.Equal(t, 7, e.Len())

	e.Reset()
	require.Equal(t, 0, e.Len())
	require.NoError(t, e.Encode(List{}))
	require.Equal(t, "le", string(e.Bytes()))
}

func TestEncodeString(t *testing.T) {
	s, err := EncodeString(Dict{"a": List{}})
	require.NoError(t, err)
	require.Equal(t, "d1:alee", s)

	require.Equal(t, []byte("i7e"), MustEncode(7))
	require.Panics(t, func() { MustEncode(1.5) })
}
