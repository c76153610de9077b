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
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/xgfone/go-bencode/metainfo"
)

func printTorrent(w io.Writer, mi metainfo.MetaInfo) error {
	info, err := mi.Info()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "name: %s\n", info.Name)
	fmt.Fprintf(w, "infohash: %s\n", mi.InfoHash().HexString())
	fmt.Fprintf(w, "size: %d\n", info.TotalLength())
	fmt.Fprintf(w, "piece length: %d\n", info.PieceLength)
	fmt.Fprintf(w, "pieces: %d\n", info.CountPieces())

	if info.IsDir() {
		fmt.Fprintf(w, "files: %d\n", len(info.Files))
		for _, file := range info.Files {
			fmt.Fprintf(w, "  %s (%d)\n", file.Path(info), file.Length)
		}
	}

	for _, tracker := range mi.Announces().Unique() {
		fmt.Fprintf(w, "tracker: %s\n", tracker)
	}

	for _, node := range mi.Nodes {
		fmt.Fprintf(w, "node: %s\n", node)
	}

	if mi.CreationDate > 0 {
		fmt.Fprintf(w, "created: %s\n", time.Unix(mi.CreationDate, 0).UTC().Format(time.RFC3339))
	}
	if mi.CreatedBy != "" {
		fmt.Fprintf(w, "created by: %s\n", mi.CreatedBy)
	}
	if mi.Comment != "" {
		fmt.Fprintf(w, "comment: %s\n", mi.Comment)
	}

	fmt.Fprintf(w, "magnet: %s\n", mi.Magnet(info.Name, mi.InfoHash()))
	return nil
}

func (a *App) runTorrent(args []string) int {
	fs := flag.NewFlagSet("torrent", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	} else if fs.NArg() != 1 {
		fmt.Fprintln(a.Stderr, "bencode torrent: need exactly one file")
		return 2
	}

	mi, err := metainfo.LoadFromFile(fs.Arg(0))
	if err == nil {
		err = printTorrent(a.Stdout, mi)
	}

	if err != nil {
		a.ErrorLog("torrent %s: %v", fs.Arg(0), err)
		return 1
	}
	return 0
}
