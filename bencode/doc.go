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

// Package bencode implements a strict decoder and a canonical encoder
// for bencoded values, the serialization format used by BitTorrent.
//
// The decoder only accepts the canonical form: integers and lengths
// without leading zeros, no negative zero, dictionary keys in strictly
// ascending byte order, and exactly one value without trailing data.
// The encoder always produces that form, so for every value v that
// Decode accepts, Encode(Decode(b)) returns b unchanged.
//
// Decoded values are one of Integer, Bytes, Text, List, Tuple or Dict.
// Encode also accepts the native Go types documented on Encoder.Encode
// and the Precomputed wrapper, which is appended verbatim.
package bencode
