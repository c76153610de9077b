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

package metainfo

import (
	"bytes"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base32"
	"encoding/hex"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/xgfone/go-bencode/bencode"
)

var zeroHash Hash

// HashSize is the size of the InfoHash.
const HashSize = 20

// Hash is the 20-byte SHA1 hash used for info and pieces.
type Hash [HashSize]byte

// NewRandomHash returns a random hash.
func NewRandomHash() (h Hash) {
	_, _ = rand.Read(h[:])
	return
}

// NewHash converts the 20-bytes to Hash.
func NewHash(b []byte) (h Hash) {
	copy(h[:], b[:HashSize])
	return
}

// NewHashFromString returns a new Hash from a string, which may be
// the raw 20 bytes, the hex form or the base32 form.
//
// It panics if s is invalid.
func NewHashFromString(s string) (h Hash) {
	if err := h.FromString(s); err != nil {
		panic(err)
	}
	return
}

// NewHashFromHexString returns a new Hash from a hex string.
//
// It panics if s is invalid.
func NewHashFromHexString(s string) (h Hash) {
	if err := h.FromHexString(s); err != nil {
		panic(err)
	}
	return
}

// NewHashFromBytes returns the SHA1 hash of b.
func NewHashFromBytes(b []byte) Hash { return sha1.Sum(b) }

// Bytes returns the byte slice type.
func (h Hash) Bytes() []byte { return h[:] }

// String is equal to HexString.
func (h Hash) String() string { return h.HexString() }

// BytesString returns the bytes string, that's, string(h[:]).
func (h Hash) BytesString() string { return string(h[:]) }

// HexString returns the hex string format.
func (h Hash) HexString() string { return hex.EncodeToString(h[:]) }

// Base32String returns the base32 string format used by the magnet links.
func (h Hash) Base32String() string { return base32.StdEncoding.EncodeToString(h[:]) }

// IsZero reports whether the whole hash is zero.
func (h Hash) IsZero() bool { return h == zeroHash }

// Value returns the hash as a bencode byte string.
func (h Hash) Value() bencode.Value { return bencode.Bytes(h.Bytes()) }

// WriteBinary is the same as MarshalBinary, but writes the result into w
// instead of returning.
func (h Hash) WriteBinary(w io.Writer) (m int, err error) {
	return w.Write(h[:])
}

// UnmarshalBinary implements the interface binary.BinaryUnmarshaler.
func (h *Hash) UnmarshalBinary(b []byte) (err error) {
	if len(b) < HashSize {
		return errors.New("Hash.UnmarshalBinary: too few bytes")
	}
	copy((*h)[:], b[:HashSize])
	return
}

// MarshalBinary implements the interface binary.BinaryMarshaler.
func (h Hash) MarshalBinary() (data []byte, err error) {
	return h[:], nil
}

// FromString resets the info hash from the string.
func (h *Hash) FromString(s string) (err error) {
	switch len(s) {
	case HashSize:
		copy(h[:], s)
	case 2 * HashSize:
		err = h.FromHexString(s)
	case 32:
		var bs []byte
		if bs, err = base32.StdEncoding.DecodeString(s); err == nil {
			copy(h[:], bs)
		}
	default:
		err = errors.Newf("hash string has bad length: %d", len(s))
	}
	return
}

// FromHexString resets the info hash from the hex string.
func (h *Hash) FromHexString(s string) (err error) {
	if len(s) != 2*HashSize {
		return errors.Newf("hash hex string has bad length: %d", len(s))
	}
	_, err = hex.Decode(h[:], []byte(s))
	return
}

// Xor returns the hash of h XOR o.
func (h Hash) Xor(o Hash) (ret Hash) {
	for i := range o {
		ret[i] = h[i] ^ o[i]
	}
	return
}

// Compare returns 0 if h == o, -1 if h < o, or +1 if h > o.
func (h Hash) Compare(o Hash) int { return bytes.Compare(h[:], o[:]) }

/// >>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>

// Hashes is a set of Hashes.
type Hashes []Hash

// NewHashesFromBytes splits the concatenation of the hashes, such as
// the "pieces" of the info dictionary.
func NewHashesFromBytes(b []byte) (Hashes, error) {
	if len(b)%HashSize != 0 {
		return nil, errors.Newf("Hashes: invalid bytes length '%d'", len(b))
	}

	hashes := make(Hashes, 0, len(b)/HashSize)
	for i := 0; i < len(b); i += HashSize {
		hashes = append(hashes, NewHash(b[i:i+HashSize]))
	}
	return hashes, nil
}

// Contains reports whether hs contains h.
func (hs Hashes) Contains(h Hash) bool {
	for _, _h := range hs {
		if h == _h {
			return true
		}
	}
	return false
}

// Bytes returns the concatenation of all the hashes.
func (hs Hashes) Bytes() []byte {
	buf := make([]byte, 0, HashSize*len(hs))
	for _, h := range hs {
		buf = append(buf, h[:]...)
	}
	return buf
}

// Value returns the hashes as a single bencode byte string.
func (hs Hashes) Value() bencode.Value { return bencode.Bytes(hs.Bytes()) }
