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
	"bufio"
	"flag"
	"io"
	"strconv"

	"github.com/xgfone/go-bencode/bencode"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func (a *App) runDecode(args []string) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	utf8 := fs.Bool("utf8", false, "Decode the byte strings as UTF-8 text")
	tuple := fs.Bool("tuple", false, "Decode the lists as tuples")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	data, err := a.readInput(fs.Arg(0))
	if err != nil {
		a.ErrorLog("decode: %v", err)
		return 1
	}

	var opts bencode.DecodeOptions
	opts.AsTuples = *tuple
	if *utf8 {
		opts.TextEncoding = "utf-8"
	}

	v, err := bencode.DecodeWithOptions(data, opts)
	if err != nil {
		a.ErrorLog("decode: %v", err)
		return 1
	}

	w := bufio.NewWriter(a.Stdout)
	dumpValue(w, v, 0)
	w.WriteByte('\n')
	if err = w.Flush(); err != nil {
		a.ErrorLog("decode: %v", err)
		return 1
	}
	return 0
}

// dumpValue writes the human-readable form of v:
//
//	Integer  42
//	Bytes    b"spam"
//	Text     "spam"
//	List     [ ... ]
//	Tuple    ( ... )
//	Dict     { b"key": ... }
func dumpValue(w io.Writer, v bencode.Value, indent int) {
	switch x := v.(type) {
	case bencode.Integer:
		io.WriteString(w, x.String())
	case bencode.Bytes:
		io.WriteString(w, "b"+strconv.Quote(string(x)))
	case bencode.Text:
		io.WriteString(w, strconv.Quote(string(x)))
	case bencode.List:
		dumpList(w, x, "[", "]", indent)
	case bencode.Tuple:
		dumpList(w, x, "(", ")", indent)
	case bencode.Dict:
		dumpDict(w, x, indent)
	case bencode.Precomputed:
		io.WriteString(w, "raw"+strconv.Quote(string(x)))
	}
}

func writeIndent(w io.Writer, indent int) {
	for i := 0; i < indent; i++ {
		io.WriteString(w, "  ")
	}
}

func dumpList(w io.Writer, vs []bencode.Value, begin, end string, indent int) {
	if len(vs) == 0 {
		io.WriteString(w, begin+end)
		return
	}

	io.WriteString(w, begin+"\n")
	for _, v := range vs {
		writeIndent(w, indent+1)
		dumpValue(w, v, indent+1)
		io.WriteString(w, ",\n")
	}
	writeIndent(w, indent)
	io.WriteString(w, end)
}

func dumpDict(w io.Writer, d bencode.Dict, indent int) {
	if len(d) == 0 {
		io.WriteString(w, "{}")
		return
	}

	keys := maps.Keys(d)
	slices.Sort(keys)

	io.WriteString(w, "{\n")
	for _, key := range keys {
		writeIndent(w, indent+1)
		io.WriteString(w, "b"+strconv.Quote(key)+": ")
		dumpValue(w, d[key], indent+1)
		io.WriteString(w, ",\n")
	}
	writeIndent(w, indent)
	io.WriteString(w, "}")
}
