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

package main

import (
	"bytes"
	"flag"

	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"
	"github.com/xgfone/go-bencode/bencode"
)

// fromJSON converts a JSON document to a bencode value.
//
// The strings become byte strings, the booleans become 0 or 1, and
// the numbers must be integers. null is not supported.
func fromJSON(data []byte) (bencode.Value, error) {
	value, dataType, offset, err := jsonparser.Get(data)
	if err != nil {
		return nil, errors.Wrap(err, "invalid json")
	} else if len(bytes.TrimSpace(data[offset:])) != 0 {
		return nil, errors.Newf("invalid json: junk after the value at offset %d", offset)
	}
	return jsonToValue(value, dataType)
}

func jsonToValue(data []byte, dataType jsonparser.ValueType) (bencode.Value, error) {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid json string %q", data)
		}
		return bencode.Bytes(s), nil

	case jsonparser.Number:
		i, err := bencode.ParseInteger(string(data))
		if err != nil {
			return nil, errors.Wrapf(err, "json number %s is not an integer", data)
		}
		return i, nil

	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(data)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid json boolean %q", data)
		} else if b {
			return bencode.NewInteger(1), nil
		}
		return bencode.NewInteger(0), nil

	case jsonparser.Array:
		list := bencode.List{}
		var err error
		_, perr := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
			if err != nil {
				return
			}

			var v bencode.Value
			if v, err = jsonToValue(value, dataType); err == nil {
				list = append(list, v)
			}
		})
		if err != nil {
			return nil, err
		} else if perr != nil {
			return nil, errors.Wrap(perr, "invalid json array")
		}
		return list, nil

	case jsonparser.Object:
		dict := bencode.Dict{}
		err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
			v, err := jsonToValue(value, dataType)
			if err != nil {
				return err
			}

			// The key is already unescaped by ObjectEach.
			dict[string(key)] = v
			return nil
		})
		if err != nil {
			return nil, err
		}
		return dict, nil

	case jsonparser.Null:
		return nil, errors.New("json null is not supported")

	default:
		return nil, errors.Newf("unsupported json value %q", data)
	}
}

func (a *App) runFromJSON(args []string) int {
	fs := flag.NewFlagSet("from-json", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	data, err := a.readInput(fs.Arg(0))
	if err != nil {
		a.ErrorLog("from-json: %v", err)
		return 1
	}

	v, err := fromJSON(data)
	if err != nil {
		a.ErrorLog("from-json: %v", err)
		return 1
	}

	b, err := bencode.Encode(v)
	if err == nil {
		_, err = a.Stdout.Write(b)
	}

	if err != nil {
		a.ErrorLog("from-json: %v", err)
		return 1
	}
	return 0
}
