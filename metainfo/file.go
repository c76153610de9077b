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
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/xgfone/go-bencode/bencode"
)

// File represents a file in the multi-file case.
type File struct {
	// Length is the length of the file in bytes.
	Length int64 // BEP 3

	// Paths is a list containing one or more string elements that together
	// represent the path and filename. Each element in the list corresponds
	// to either a directory name or (in the case of the final element) the
	// filename.
	//
	// For example, a the file "dir1/dir2/file.ext" would consist of three
	// string elements: "dir1", "dir2", and "file.ext". This is encoded as
	// a bencoded list of strings such as l4:dir14:dir28:file.exte.
	Paths []string // BEP 3
}

// NewFileFromValue converts an element of the "files" list to File.
func NewFileFromValue(v bencode.Value) (f File, err error) {
	d, ok := v.(bencode.Dict)
	if !ok {
		return f, errors.New("metainfo: file is not a dictionary")
	}

	if f.Length, err = getInt64(d, "length", true); err != nil {
		return
	} else if f.Length < 0 {
		return f, errors.Newf("metainfo: negative file length '%d'", f.Length)
	}

	if f.Paths, ok = toStrings(d["path"]); !ok || len(f.Paths) == 0 {
		return f, fieldError("path", "a non-empty list of strings")
	}
	return
}

// Value returns the dictionary {"length": ..., "path": [...]}.
func (f File) Value() bencode.Value {
	return bencode.Dict{
		"length": bencode.NewInteger(f.Length),
		"path":   newStrings(f.Paths),
	}
}

func (f File) String() string {
	return filepath.Join(f.Paths...)
}

// Path returns the path of the current.
func (f File) Path(info Info) string {
	if info.IsDir() {
		return f.String()
	}
	return info.Name
}

// Offset returns the offset of the current file from the start.
func (f File) Offset(info Info) (ret int64) {
	path := f.Path(info)
	for _, file := range info.AllFiles() {
		if path == file.Path(info) {
			return
		}
		ret += file.Length
	}
	panic("not found")
}

type files []File

func (fs files) Len() int           { return len(fs) }
func (fs files) Less(i, j int) bool { return fs[i].String() < fs[j].String() }
func (fs files) Swap(i, j int)      { fs[i], fs[j] = fs[j], fs[i] }

// FilePiece represents the piece range used by a file, which is used to
// calculate the downloaded piece when downloading the file.
type FilePiece struct {
	Index  int64 // The index of the current piece.
	Offset int64 // The offset bytes from the beginning of the current piece.
	Length int64 // The length of the data.
}

// FilePieces is a set of FilePiece.
type FilePieces []FilePiece

func (fps FilePieces) Len() int      { return len(fps) }
func (fps FilePieces) Swap(i, j int) { fps[i], fps[j] = fps[j], fps[i] }
func (fps FilePieces) Less(i, j int) bool {
	if fps[i].Index == fps[j].Index {
		return fps[i].Offset < fps[j].Offset
	}
	return fps[i].Index < fps[j].Index
}

// Merge sorts the file pieces and merges the adjacent ranges
// in the same piece.
func (fps FilePieces) Merge() FilePieces {
	if len(fps) < 2 {
		return fps
	}

	sort.Sort(fps)
	merged := make(FilePieces, 1, len(fps))
	merged[0] = fps[0]
	for _, fp := range fps[1:] {
		last := &merged[len(merged)-1]
		if last.Index == fp.Index && last.Offset+last.Length == fp.Offset {
			last.Length += fp.Length
		} else {
			merged = append(merged, fp)
		}
	}
	return merged
}

// FilePieces returns the information of the pieces referred by the file.
func (f File) FilePieces(info Info) (fps FilePieces) {
	if f.Length < 1 {
		return nil
	}

	startOffset := f.Offset(info)
	startPieceIndex := startOffset / info.PieceLength
	startPieceOffset := startOffset % info.PieceLength

	endOffset := startOffset + f.Length
	endPieceIndex := endOffset / info.PieceLength
	endPieceOffset := endOffset % info.PieceLength

	if startPieceIndex == endPieceIndex {
		return FilePieces{{
			Index:  startPieceIndex,
			Offset: startPieceOffset,
			Length: endPieceOffset - startPieceOffset,
		}}
	}

	fps = make(FilePieces, 0, endPieceIndex-startPieceIndex+1)
	fps = append(fps, FilePiece{
		Index:  startPieceIndex,
		Offset: startPieceOffset,
		Length: info.PieceLength - startPieceOffset,
	})
	for i := startPieceIndex + 1; i < endPieceIndex; i++ {
		fps = append(fps, FilePiece{Index: i, Length: info.PieceLength})
	}
	if endPieceOffset > 0 {
		fps = append(fps, FilePiece{Index: endPieceIndex, Length: endPieceOffset})
	}
	return
}
