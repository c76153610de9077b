// Mozilla Public License Version 2.0
// Modify from github.com/anacrolix/torrent/metainfo.

package metainfo

import (
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
)

// Magnet link components.
type Magnet struct {
	InfoHash    Hash       // From "xt"
	Trackers    []string   // From "tr"
	DisplayName string     // From "dn" if not empty
	Params      url.Values // All other values, such as "as", "xs", etc
}

const xtPrefix = "urn:btih:"

// Peers returns the list of the addresses of the peers, which are
// the "x.pe" parameters.
//
// See BEP 9
func (m Magnet) Peers() (peers []HostAddr, err error) {
	vs := m.Params["x.pe"]
	peers = make([]HostAddr, 0, len(vs))
	for _, v := range vs {
		if v == "" {
			continue
		}

		addr, err := ParseHostAddr(v)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid peer address %q", v)
		}
		peers = append(peers, addr)
	}
	return
}

func (m Magnet) String() string {
	vs := make(url.Values, len(m.Params)+2)
	for k, v := range m.Params {
		vs[k] = append([]string(nil), v...)
	}

	for _, tr := range m.Trackers {
		vs.Add("tr", tr)
	}
	if m.DisplayName != "" {
		vs.Add("dn", m.DisplayName)
	}

	// Clients expect "urn:btih:" to be unescaped and at the start.
	u := url.URL{
		Scheme:   "magnet",
		RawQuery: "xt=" + xtPrefix + m.InfoHash.HexString(),
	}
	if len(vs) != 0 {
		u.RawQuery += "&" + vs.Encode()
	}
	return u.String()
}

// ParseMagnetURI parses Magnet-formatted URIs into a Magnet instance.
func ParseMagnetURI(uri string) (m Magnet, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		err = errors.Wrap(err, "error parsing uri")
		return
	} else if u.Scheme != "magnet" {
		err = errors.Newf("unexpected scheme %q", u.Scheme)
		return
	}

	q := u.Query()
	xt := q.Get("xt")
	if m.InfoHash, err = parseInfohash(xt); err != nil {
		err = errors.Wrapf(err, "error parsing infohash %q", xt)
		return
	}
	dropFirst(q, "xt")

	m.DisplayName = q.Get("dn")
	dropFirst(q, "dn")

	m.Trackers = q["tr"]
	delete(q, "tr")

	if len(q) == 0 {
		q = nil
	}

	m.Params = q
	return
}

func parseInfohash(xt string) (ih Hash, err error) {
	if !strings.HasPrefix(xt, xtPrefix) {
		return ih, errors.New("bad xt parameter prefix")
	}

	encoded := xt[len(xtPrefix):]
	switch len(encoded) {
	case 2 * HashSize, 32:
		err = ih.FromString(encoded)
	default:
		err = errors.Newf("unhandled xt parameter encoding (encoded length %d)", len(encoded))
	}
	return
}

func dropFirst(vs url.Values, key string) {
	sl := vs[key]
	switch len(sl) {
	case 0, 1:
		vs.Del(key)
	default:
		vs[key] = sl[1:]
	}
}
