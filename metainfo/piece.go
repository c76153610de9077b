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
	"crypto/sha1"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/xgfone/go-bencode/internal/helper"
)

// Some common piece sizes.
const (
	PieceSize256KB = 1024 * 256
	PieceSize512KB = 2 * PieceSize256KB
	PieceSize1MB   = 2 * PieceSize512KB
	PieceSize2MB   = 2 * PieceSize1MB
	PieceSize4MB   = 2 * PieceSize2MB
)

// Piece represents a torrent file piece.
type Piece struct {
	info  Info
	index int
}

// Piece returns the index-th piece.
//
// It panics if index is out of range.
func (info Info) Piece(index int) Piece {
	if index < 0 || index >= info.CountPieces() {
		panic(errors.Newf("piece index '%d' is out of range [0, %d)",
			index, info.CountPieces()))
	}
	return Piece{info: info, index: index}
}

// Index returns the index of the current piece.
func (p Piece) Index() int { return p.index }

// Offset returns the offset that the current piece is in all the files.
func (p Piece) Offset() int64 { return int64(p.index) * p.info.PieceLength }

// Hash returns the hash representation of the piece.
func (p Piece) Hash() (h Hash) { return p.info.Pieces[p.index] }

// Length returns the length of the current piece.
func (p Piece) Length() int64 {
	if p.index == p.info.CountPieces()-1 {
		return p.info.TotalLength() - int64(p.index)*p.info.PieceLength
	}
	return p.info.PieceLength
}

// Verify reports whether the SHA1 hash of data is equal to the piece hash.
func (p Piece) Verify(data []byte) bool {
	return int64(len(data)) == p.Length() && NewHashFromBytes(data) == p.Hash()
}

// GeneratePieces generates the pieces from the reader.
func GeneratePieces(r io.Reader, pieceLength int64) (hs Hashes, err error) {
	if pieceLength <= 0 {
		return nil, errors.New("piece length must be a positive integer")
	}

	buf := make([]byte, pieceLength)
	for {
		h := sha1.New()
		written, err := helper.CopyNBuffer(h, r, pieceLength, buf)
		if written > 0 {
			hs = append(hs, NewHash(h.Sum(nil)))
		}

		if err == io.EOF {
			return hs, nil
		}

		if err != nil {
			return nil, err
		}
	}
}

func writeFiles(w io.Writer, files []File, open func(File) (io.ReadCloser, error)) error {
	buf := make([]byte, 8192)
	for _, file := range files {
		r, err := open(file)
		if err != nil {
			return errors.Wrapf(err, "error opening %s", file)
		}

		n, err := helper.CopyNBuffer(w, r, file.Length, buf)
		r.Close()

		if n != file.Length {
			return errors.Wrapf(err, "error copying %s", file)
		}
	}
	return nil
}

// GeneratePiecesFromFiles generates the pieces from the files.
func GeneratePiecesFromFiles(files []File, pieceLength int64,
	open func(File) (io.ReadCloser, error)) (Hashes, error) {
	if pieceLength <= 0 {
		return nil, errors.New("piece length must be a positive integer")
	}

	pr, pw := io.Pipe()
	defer pr.Close()

	go func() { pw.CloseWithError(writeFiles(pw, files, open)) }()
	return GeneratePieces(pr, pieceLength)
}
