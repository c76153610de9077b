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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/xgfone/go-bencode/bencode"
	"github.com/xgfone/go-bencode/metainfo"
)

type testApp struct {
	App
	stdout bytes.Buffer
	stderr bytes.Buffer
	logs   []string
}

func newTestApp(stdin string) *testApp {
	a := new(testApp)
	a.Stdin = strings.NewReader(stdin)
	a.Stdout = &a.stdout
	a.Stderr = &a.stderr
	a.ErrorLog = func(format string, args ...interface{}) {
		a.logs = append(a.logs, fmt.Sprintf(format, args...))
	}
	return a
}

func writeFile(t *testing.T, dir, name, data string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestRunUsage(t *testing.T) {
	a := newTestApp("")
	require.Equal(t, 2, a.Run(nil))
	require.Contains(t, a.stderr.String(), "Usage: bencode")

	a = newTestApp("")
	require.Equal(t, 2, a.Run([]string{"unknown"}))
	require.Contains(t, a.stderr.String(), `unknown command "unknown"`)

	a = newTestApp("")
	require.Equal(t, 0, a.Run([]string{"help"}))
	require.Contains(t, a.stdout.String(), "from-json")
}

func TestRunDecode(t *testing.T) {
	a := newTestApp("d3:cowl3:mooi42ee4:spamdee")
	require.Equal(t, 0, a.Run([]string{"decode"}))
	require.Equal(t, "{\n  b\"cow\": [\n    b\"moo\",\n    42,\n  ],\n  b\"spam\": {},\n}\n", a.stdout.String())

	a = newTestApp("l5:\xc3\xa9t\xc3\xa9lee")
	require.Equal(t, 0, a.Run([]string{"decode", "-utf8", "-tuple", "-"}))
	require.Equal(t, "(\n  \"été\",\n  (),\n)\n", a.stdout.String())

	a = newTestApp("d4:spam3:egg3:cow3:mooe")
	require.Equal(t, 1, a.Run([]string{"decode"}))
	require.Len(t, a.logs, 1)
	require.Contains(t, a.logs[0], "dict keys disordered")

	a = newTestApp("")
	require.Equal(t, 2, a.Run([]string{"decode", "-unknown"}))
}

func TestDecodeFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.bencode", "i-7e")

	a := newTestApp("")
	require.Equal(t, 0, a.Run([]string{"decode", path}))
	require.Equal(t, "-7\n", a.stdout.String())

	a = newTestApp("")
	require.Equal(t, 1, a.Run([]string{"decode", path + ".missing"}))
	require.Len(t, a.logs, 1)
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good", "l4:spami42ee")
	bad := writeFile(t, dir, "bad", "i03e")
	junk := writeFile(t, dir, "junk", "dei1e")

	errs := checkFiles([]string{good, bad, junk, filepath.Join(dir, "missing")}, 2)
	require.Len(t, errs, 4)
	require.NoError(t, errs[0])
	require.True(t, errors.Is(errs[1], bencode.ErrLeadingZero), "%v", errs[1])
	require.True(t, errors.Is(errs[2], bencode.ErrTrailingData), "%v", errs[2])
	require.True(t, errors.Is(errs[3], os.ErrNotExist), "%v", errs[3])

	a := newTestApp("")
	require.Equal(t, 1, a.Run([]string{"check", "-jobs", "1", good, bad}))
	lines := strings.Split(strings.TrimSpace(a.stdout.String()), "\n")
	require.Equal(t, good+": ok", lines[0])
	require.True(t, strings.HasPrefix(lines[1], bad+": bencode: leading zero"), lines[1])
	require.Len(t, a.logs, 1)

	a = newTestApp("")
	require.Equal(t, 0, a.Run([]string{"check", good}))

	a = newTestApp("")
	require.Equal(t, 2, a.Run([]string{"check"}))
}

func TestFromJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`42`, "i42e"},
		{`-7`, "i-7e"},
		{`123456789012345678901234567890`, "i123456789012345678901234567890e"},
		{`"spam"`, "4:spam"},
		{`"café"`, "5:caf\xc3\xa9"},
		{`true`, "i1e"},
		{`false`, "i0e"},
		{`[]`, "le"},
		{`{}`, "de"},
		{` [1, "a", [true]] `, "li1e1:ali1eee"},
		{`{"spam": ["a", "b"], "cow": {"moo": 4}}`, "d3:cowd3:mooi4ee4:spaml1:a1:bee"},
		{`{"b\"": 1}`, "d2:b\"i1ee"},
		{`{"a\\n": 1}`, "d3:a\\ni1ee"},
		{`{"\\": 1}`, "d1:\\i1ee"},
		{`{"\\u0041": 1}`, "d6:\\u0041i1ee"},
		{`{"\u0041": 1}`, "d1:Ai1ee"},
	}

	for _, test := range tests {
		v, err := fromJSON([]byte(test.input))
		require.NoError(t, err, test.input)

		b, err := bencode.Encode(v)
		require.NoError(t, err, test.input)
		require.Equal(t, test.expected, string(b), test.input)
	}

	for _, input := range []string{``, `1.5`, `1e3`, `null`, `[null]`, `{"a": 0.5}`, `1 2`, `[1,`} {
		_, err := fromJSON([]byte(input))
		require.Error(t, err, input)
	}
}

func TestRunFromJSON(t *testing.T) {
	a := newTestApp(`{"name": "x", "size": 3}`)
	require.Equal(t, 0, a.Run([]string{"from-json"}))
	require.Equal(t, "d4:name1:x4:sizei3ee", a.stdout.String())

	a = newTestApp(`[1.5]`)
	require.Equal(t, 1, a.Run([]string{"from-json", "-"}))
	require.Empty(t, a.stdout.String())
	require.Len(t, a.logs, 1)
}

func TestRunTorrent(t *testing.T) {
	var mi metainfo.MetaInfo
	mi.Announce = "http://tracker/announce"
	mi.Comment = "hello"
	mi.Nodes = []metainfo.HostAddr{metainfo.NewHostAddr("1.2.3.4", 6881)}
	require.NoError(t, mi.SetInfo(metainfo.Info{
		Name:        "dir",
		PieceLength: 16,
		Pieces:      metainfo.Hashes{metainfo.NewHashFromBytes([]byte("x"))},
		Files: []metainfo.File{
			{Length: 10, Paths: []string{"a"}},
			{Length: 5, Paths: []string{"b"}},
		},
	}))

	var buf bytes.Buffer
	require.NoError(t, mi.Write(&buf))
	path := writeFile(t, t.TempDir(), "test.torrent", buf.String())

	a := newTestApp("")
	require.Equal(t, 0, a.Run([]string{"torrent", path}))

	out := a.stdout.String()
	require.Contains(t, out, "name: dir\n")
	require.Contains(t, out, "infohash: "+mi.InfoHash().HexString()+"\n")
	require.Contains(t, out, "size: 15\n")
	require.Contains(t, out, "pieces: 1\n")
	require.Contains(t, out, "files: 2\n  a (10)\n  b (5)\n")
	require.Contains(t, out, "tracker: http://tracker/announce\n")
	require.Contains(t, out, "node: 1.2.3.4:6881\n")
	require.Contains(t, out, "comment: hello\n")
	require.Contains(t, out, "magnet: magnet:?xt=urn:btih:"+mi.InfoHash().HexString())

	bad := writeFile(t, t.TempDir(), "bad.torrent", "d4:infoi1ee")
	a = newTestApp("")
	require.Equal(t, 1, a.Run([]string{"torrent", bad}))
	require.Len(t, a.logs, 1)

	a = newTestApp("")
	require.Equal(t, 2, a.Run([]string{"torrent"}))
}
