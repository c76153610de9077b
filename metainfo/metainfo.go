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
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xgfone/go-bencode/bencode"
	"github.com/xgfone/go-bencode/internal/helper"
)

// Bytes is the encoded bytes of a bencode value, which is written verbatim.
type Bytes = bencode.Precomputed

// AnnounceList is a list of the announces.
type AnnounceList [][]string

// Unique returns the list of the unique announces.
func (al AnnounceList) Unique() (announces []string) {
	announces = make([]string, 0, len(al))
	for _, tier := range al {
		for _, v := range tier {
			if v != "" {
				announces = helper.AppendUniqueString(announces, v)
			}
		}
	}
	return
}

// URLList represents a list of the url.
//
// BEP 19
type URLList []string

// FullURL returns the index-th full url.
//
// For the single-file case, name is the "name" of "info".
// For the multi-file case, name is the path "name/path/file"
// from "info" and "files".
//
// See http://bittorrent.org/beps/bep_0019.html
func (us URLList) FullURL(index int, name string) (url string) {
	if url = us[index]; strings.HasSuffix(url, "/") {
		url += name
	}
	return
}

// NewURLListFromValue converts the "url-list" value, which is either
// a single string or a list of strings, to URLList.
func NewURLListFromValue(v bencode.Value) (URLList, error) {
	if s, ok := toString(v); ok {
		return URLList{s}, nil
	} else if ss, ok := toStrings(v); ok {
		return URLList(ss), nil
	}
	return nil, fieldError("url-list", "a string or a list of strings")
}

// MetaInfo represents the .torrent file.
type MetaInfo struct {
	InfoBytes    Bytes        // "info", BEP 3
	Announce     string       // "announce", BEP 3
	AnnounceList AnnounceList // "announce-list", BEP 12
	Nodes        []HostAddr   // "nodes", BEP 5
	URLList      URLList      // "url-list", BEP 19

	// Where's this specified?
	// Mentioned at https://wiki.theory.org/index.php/BitTorrentSpecification.
	// All of them are optional.

	// CreationDate is the creation time of the torrent, in standard UNIX epoch
	// format (seconds since 1-Jan-1970 00:00:00 UTC).
	CreationDate int64 // "creation date"
	// Comment is the free-form textual comments of the author.
	Comment string // "comment"
	// CreatedBy is name and version of the program used to create the .torrent.
	CreatedBy string // "created by"
	// Encoding is the string encoding format used to generate the pieces part
	// of the info dictionary in the .torrent metafile.
	Encoding string // "encoding"
}

// Load loads a MetaInfo from an io.Reader.
func Load(r io.Reader) (mi MetaInfo, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	v, err := bencode.Decode(data)
	if err != nil {
		return mi, errors.Wrap(err, "metainfo: invalid torrent")
	}

	err = mi.FromValue(v)
	return
}

// LoadFromFile loads a MetaInfo from a file.
func LoadFromFile(filename string) (mi MetaInfo, err error) {
	f, err := os.Open(filename)
	if err == nil {
		defer f.Close()
		mi, err = Load(f)
	}
	return
}

// FromValue resets the metainfo from the decoded torrent dictionary.
//
// The "info" dictionary is re-encoded into InfoBytes, which is equal to
// the original bytes since the decoder only accepts the canonical form.
func (mi *MetaInfo) FromValue(v bencode.Value) (err error) {
	d, ok := v.(bencode.Dict)
	if !ok {
		return errors.New("metainfo: torrent is not a dictionary")
	}

	info, ok := d["info"].(bencode.Dict)
	if !ok {
		return fieldError("info", "a dictionary")
	}

	var m MetaInfo
	if m.InfoBytes, err = bencode.Encode(info); err != nil {
		return errors.Wrap(err, "metainfo: encoding info")
	}

	if m.Announce, err = getString(d, "announce", false); err != nil {
		return
	}

	if al, ok := d["announce-list"]; ok {
		tiers, ok := toList(al)
		if !ok {
			return fieldError("announce-list", "a list")
		}

		m.AnnounceList = make(AnnounceList, len(tiers))
		for i, tier := range tiers {
			if m.AnnounceList[i], ok = toStrings(tier); !ok {
				return fieldError("announce-list", "a list of the string lists")
			}
		}
	}

	if nodes, ok := d["nodes"]; ok {
		vs, ok := toList(nodes)
		if !ok {
			return fieldError("nodes", "a list")
		}

		m.Nodes = make([]HostAddr, len(vs))
		for i, node := range vs {
			if m.Nodes[i], err = NewHostAddrFromValue(node); err != nil {
				return errors.Wrapf(err, "metainfo: nodes[%d]", i)
			}
		}
	}

	if us, ok := d["url-list"]; ok {
		if m.URLList, err = NewURLListFromValue(us); err != nil {
			return
		}
	}

	if m.CreationDate, err = getInt64(d, "creation date", false); err != nil {
		return
	} else if m.Comment, err = getString(d, "comment", false); err != nil {
		return
	} else if m.CreatedBy, err = getString(d, "created by", false); err != nil {
		return
	} else if m.Encoding, err = getString(d, "encoding", false); err != nil {
		return
	}

	*mi = m
	return
}

// Dict returns the torrent dictionary, and the empty optional fields
// are omitted.
func (mi MetaInfo) Dict() bencode.Dict {
	d := bencode.Dict{"info": mi.InfoBytes}

	if mi.Announce != "" {
		d["announce"] = bencode.Bytes(mi.Announce)
	}

	if len(mi.AnnounceList) > 0 {
		tiers := make(bencode.List, len(mi.AnnounceList))
		for i, tier := range mi.AnnounceList {
			tiers[i] = newStrings(tier)
		}
		d["announce-list"] = tiers
	}

	if len(mi.Nodes) > 0 {
		nodes := make(bencode.List, len(mi.Nodes))
		for i, node := range mi.Nodes {
			nodes[i] = node.Value()
		}
		d["nodes"] = nodes
	}

	if len(mi.URLList) > 0 {
		d["url-list"] = newStrings(mi.URLList)
	}

	if mi.CreationDate != 0 {
		d["creation date"] = bencode.NewInteger(mi.CreationDate)
	}
	if mi.Comment != "" {
		d["comment"] = bencode.Bytes(mi.Comment)
	}
	if mi.CreatedBy != "" {
		d["created by"] = bencode.Bytes(mi.CreatedBy)
	}
	if mi.Encoding != "" {
		d["encoding"] = bencode.Bytes(mi.Encoding)
	}

	return d
}

// Announces returns all the announces.
func (mi MetaInfo) Announces() AnnounceList {
	if len(mi.AnnounceList) > 0 {
		return mi.AnnounceList
	} else if mi.Announce != "" {
		return [][]string{{mi.Announce}}
	}
	return nil
}

// Magnet creates a Magnet from a MetaInfo.
//
// If displayName or infoHash is empty, it will be got from the info part.
// The display name stays empty if the info part cannot be decoded.
func (mi MetaInfo) Magnet(displayName string, infoHash Hash) (m Magnet) {
	m.Trackers = mi.Announces().Unique()

	if displayName == "" {
		if info, err := mi.Info(); err == nil {
			displayName = info.Name
		}
	}

	if infoHash.IsZero() {
		infoHash = mi.InfoHash()
	}

	m.DisplayName = displayName
	m.InfoHash = infoHash
	return
}

// Write encodes the metainfo to w.
func (mi MetaInfo) Write(w io.Writer) error {
	if len(mi.InfoBytes) == 0 {
		return errors.New("metainfo: missing info")
	}

	data, err := bencode.Encode(mi.Dict())
	if err == nil {
		_, err = w.Write(data)
	}
	return err
}

// InfoHash returns the hash of the info.
func (mi MetaInfo) InfoHash() Hash {
	return NewHashFromBytes(mi.InfoBytes)
}

// Info parses the InfoBytes to the Info.
func (mi MetaInfo) Info() (info Info, err error) {
	v, err := bencode.Decode(mi.InfoBytes)
	if err != nil {
		return info, errors.Wrap(err, "metainfo: invalid info")
	}
	return NewInfoFromValue(v)
}

// SetInfo encodes info and resets InfoBytes with it.
func (mi *MetaInfo) SetInfo(info Info) (err error) {
	data, err := bencode.Encode(info.Dict())
	if err == nil {
		mi.InfoBytes = data
	}
	return
}
