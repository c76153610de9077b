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
	"github.com/cockroachdb/errors"
	"github.com/xgfone/go-bencode/bencode"
)

func toString(v bencode.Value) (string, bool) {
	switch s := v.(type) {
	case bencode.Bytes:
		return string(s), true
	case bencode.Text:
		return string(s), true
	default:
		return "", false
	}
}

func toInt64(v bencode.Value) (int64, bool) {
	if i, ok := v.(bencode.Integer); ok {
		return i.Int64()
	}
	return 0, false
}

func toList(v bencode.Value) ([]bencode.Value, bool) {
	switch l := v.(type) {
	case bencode.List:
		return l, true
	case bencode.Tuple:
		return l, true
	default:
		return nil, false
	}
}

func toStrings(v bencode.Value) (ss []string, ok bool) {
	vs, ok := toList(v)
	if !ok {
		return
	}

	ss = make([]string, len(vs))
	for i, e := range vs {
		if ss[i], ok = toString(e); !ok {
			return nil, false
		}
	}
	return
}

func newStrings(ss []string) bencode.List {
	vs := make(bencode.List, len(ss))
	for i, s := range ss {
		vs[i] = bencode.Bytes(s)
	}
	return vs
}

func fieldError(key, kind string) error {
	return errors.Newf("metainfo: '%s' is not %s", key, kind)
}

func getString(d bencode.Dict, key string, required bool) (string, error) {
	v, ok := d[key]
	if !ok {
		if required {
			return "", errors.Newf("metainfo: missing '%s'", key)
		}
		return "", nil
	}

	s, ok := toString(v)
	if !ok {
		return "", fieldError(key, "a string")
	}
	return s, nil
}

func getInt64(d bencode.Dict, key string, required bool) (int64, error) {
	v, ok := d[key]
	if !ok {
		if required {
			return 0, errors.Newf("metainfo: missing '%s'", key)
		}
		return 0, nil
	}

	i, ok := toInt64(v)
	if !ok {
		return 0, fieldError(key, "a 64-bit integer")
	}
	return i, nil
}
