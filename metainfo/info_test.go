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
	"reflect"
	"testing"

	"github.com/xgfone/go-bencode/bencode"
)

func TestInfo_GetFileByOffset(t *testing.T) {
	FileInfo := Info{
		Name:        "test_rw",
		PieceLength: 64,
		Length:      600,
	}
	file, fileOffset := FileInfo.GetFileByOffset(0)
	if file.Offset(FileInfo) != 0 || fileOffset != 0 {
		t.Errorf("expect fileOffset='%d', but got '%d'", 0, fileOffset)
	}
	file, fileOffset = FileInfo.GetFileByOffset(100)
	if file.Offset(FileInfo) != 0 || fileOffset != 100 {
		t.Errorf("expect fileOffset='%d', but got '%d'", 100, fileOffset)
	}
	file, fileOffset = FileInfo.GetFileByOffset(600)
	if file.Offset(FileInfo) != 0 || fileOffset != 600 {
		t.Errorf("expect fileOffset='%d', but got '%d'", 600, fileOffset)
	}

	DirInfo := Info{
		Name:        "test_rw",
		PieceLength: 64,
		Files: []File{
			{Length: 100, Paths: []string{"file1"}},
			{Length: 200, Paths: []string{"file2"}},
			{Length: 300, Paths: []string{"file3"}},
		},
	}
	file, fileOffset = DirInfo.GetFileByOffset(0)
	if file.Offset(DirInfo) != 0 || file.Length != 100 || fileOffset != 0 {
		t.Errorf("expect fileOffset='%d', but got '%d'", 0, fileOffset)
	}
	file, fileOffset = DirInfo.GetFileByOffset(50)
	if file.Offset(DirInfo) != 0 || file.Length != 100 || fileOffset != 50 {
		t.Errorf("expect fileOffset='%d', but got '%d'", 50, fileOffset)
	}
	file, fileOffset = DirInfo.GetFileByOffset(100)
	if file.Offset(DirInfo) != 100 || file.Length != 200 || fileOffset != 0 {
		t.Errorf("expect fileOffset='%d', but got '%d'", 0, fileOffset)
	}
	file, fileOffset = DirInfo.GetFileByOffset(200)
	if file.Offset(DirInfo) != 100 || file.Length != 200 || fileOffset != 100 {
		t.Errorf("expect fileOffset='%d', but got '%d'", 100, fileOffset)
	}
	file, fileOffset = DirInfo.GetFileByOffset(300)
	if file.Offset(DirInfo) != 300 || file.Length != 300 || fileOffset != 0 {
		t.Errorf("expect fileOffset='%d', but got '%d'", 0, fileOffset)
	}
	file, fileOffset = DirInfo.GetFileByOffset(400)
	if file.Offset(DirInfo) != 300 || file.Length != 300 || fileOffset != 100 {
		t.Errorf("expect fileOffset='%d', but got '%d'", 100, fileOffset)
	}
	file, fileOffset = DirInfo.GetFileByOffset(600)
	if file.Offset(DirInfo) != 300 || file.Length != 300 || fileOffset != 300 {
		t.Errorf("expect fileOffset='%d', but got '%d'", 300, fileOffset)
	}
}

func TestNewInfoFromFilePath(t *testing.T) {
	info, err := NewInfoFromFilePath("info.go", PieceSize256KB)
	if err != nil {
		t.Error(err)
	} else if info.Name != "info.go" || info.Files != nil {
		t.Errorf("invalid info %+v\n", info)
	}

	info, err = NewInfoFromFilePath("../metainfo", PieceSize256KB)
	if err != nil {
		t.Error(err)
	} else if info.Name != "metainfo" || info.Files == nil || info.Length > 0 {
		t.Errorf("invalid info %+v\n", info)
	}

	info, err = NewInfoFromFilePath("../internal", PieceSize256KB)
	if err != nil {
		t.Error(err)
	} else if info.Name != "internal" || info.Files == nil || info.Length > 0 {
		t.Errorf("invalid info %+v\n", info)
	} else if info.Files[0].Paths[0] != "helper" {
		t.Errorf("unexpected file paths %v", info.Files[0].Paths)
	}

	if _, err = NewInfoFromFilePath("info.go", 0); err == nil {
		t.Error("expect an error for the zero piece length")
	}
}

func TestInfoValue(t *testing.T) {
	pieces := Hashes{NewHashFromBytes([]byte("a")), NewHashFromBytes([]byte("b"))}
	dirInfo := Info{
		Name:        "dir",
		PieceLength: 32,
		Pieces:      pieces,
		Files: []File{
			{Length: 20, Paths: []string{"a", "file1"}},
			{Length: 30, Paths: []string{"file2"}},
		},
	}

	b, err := bencode.Encode(dirInfo.Dict())
	if err != nil {
		t.Fatal(err)
	}

	expect := "d5:filesld6:lengthi20e4:pathl1:a5:file1eed6:lengthi30e4:pathl5:file2eee" +
		"4:name3:dir12:piece lengthi32e6:pieces40:" + string(pieces.Bytes()) + "e"
	if string(b) != expect {
		t.Errorf("expect '%s', but got '%s'", expect, b)
	}

	v, err := bencode.Decode(b)
	if err != nil {
		t.Fatal(err)
	}

	info, err := NewInfoFromValue(v)
	if err != nil {
		t.Fatal(err)
	} else if !reflect.DeepEqual(info, dirInfo) {
		t.Errorf("expect %+v, but got %+v", dirInfo, info)
	}

	fileInfo := Info{Name: "file", PieceLength: 16, Pieces: pieces[:1], Length: 10}
	if info, err = NewInfoFromValue(fileInfo.Dict()); err != nil {
		t.Error(err)
	} else if !reflect.DeepEqual(info, fileInfo) {
		t.Errorf("expect %+v, but got %+v", fileInfo, info)
	}
}

func TestNewInfoFromValueErrors(t *testing.T) {
	for _, s := range []string{
		"le",
		"d6:lengthi1e12:piece lengthi1e6:pieces0:e",
		"d6:lengthi1e4:name1:a6:pieces0:e",
		"d6:lengthi1e4:name1:a12:piece lengthi0e6:pieces0:e",
		"d6:lengthi1e4:name1:a12:piece lengthi1e6:pieces3:abce",
		"d4:name1:a12:piece lengthi1e6:pieces0:e",
		"d5:filesle6:lengthi1e4:name1:a12:piece lengthi1e6:pieces0:e",
		"d5:filesle4:name1:a12:piece lengthi1e6:pieces0:e",
		"d5:filesld6:lengthi1eee4:name1:a12:piece lengthi1e6:pieces0:e",
		"d6:lengthi-1e4:name1:a12:piece lengthi1e6:pieces0:e",
		"d6:length1:x4:name1:a12:piece lengthi1e6:pieces0:e",
	} {
		v, err := bencode.DecodeString(s)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}

		if _, err = NewInfoFromValue(v); err == nil {
			t.Errorf("%s: expect an error", s)
		}
	}
}
