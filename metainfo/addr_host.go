// Copyright 2023 xgfone
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
	"net"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/eyedeekay/i2pkeys"
	"github.com/xgfone/go-bencode/bencode"
)

// HostAddr represents an address based on host and port,
// such as an element of the "nodes" list of the metainfo.
//
// BEP 5
type HostAddr struct {
	Host string
	Port uint16
}

// NewHostAddr returns a new host Addr.
func NewHostAddr(host string, port uint16) HostAddr {
	return HostAddr{Host: host, Port: port}
}

// ParseHostAddr parses a string s to Addr.
func ParseHostAddr(s string) (HostAddr, error) {
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return HostAddr{}, err
	}

	_port, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return HostAddr{}, err
	}

	return NewHostAddr(host, uint16(_port)), nil
}

// NewHostAddrFromValue converts a bencode value to HostAddr.
//
// The value is either the list [host, port] or the string "host:port".
func NewHostAddrFromValue(v bencode.Value) (a HostAddr, err error) {
	if s, ok := toString(v); ok {
		return ParseHostAddr(s)
	}

	vs, ok := toList(v)
	if !ok || len(vs) != 2 {
		return a, errors.New("metainfo: host address is not a [host, port] list")
	}

	if a.Host, ok = toString(vs[0]); !ok {
		return a, errors.New("metainfo: host of the address is not a string")
	}

	port, ok := toInt64(vs[1])
	if !ok || port < 0 || port > 65535 {
		return a, errors.Newf("metainfo: invalid port '%v' of the address", vs[1])
	}

	a.Port = uint16(port)
	return
}

func (a HostAddr) String() string {
	if a.Port == 0 {
		return a.Host
	}
	return net.JoinHostPort(a.Host, strconv.FormatUint(uint64(a.Port), 10))
}

// Equal reports whether a is equal to o.
func (a HostAddr) Equal(o HostAddr) bool {
	return a.Port == o.Port && a.Host == o.Host
}

// Value returns the bencode list [host, port].
func (a HostAddr) Value() bencode.Value {
	return bencode.List{bencode.Bytes(a.Host), bencode.NewInteger(int64(a.Port))}
}

// IsI2P reports whether the host is an I2P destination, such as
// "<base64>.i2p" or "<base32>.b32.i2p".
func (a HostAddr) IsI2P() bool { return strings.HasSuffix(a.Host, ".i2p") }

// I2PAddr returns the I2P destination of the host "<base64>.i2p".
//
// The base32 names "<base32>.b32.i2p" need a lookup by the SAM bridge,
// so they return an error.
func (a HostAddr) I2PAddr() (addr i2pkeys.I2PAddr, err error) {
	switch {
	case strings.HasSuffix(a.Host, ".b32.i2p"):
		err = errors.Newf("metainfo: i2p name '%s' needs a lookup", a.Host)
	case strings.HasSuffix(a.Host, ".i2p"):
		addr = i2pkeys.I2PAddr(strings.TrimSuffix(a.Host, ".i2p"))
		if _, err = addr.ToBytes(); err != nil {
			err = errors.Wrapf(err, "metainfo: invalid i2p destination '%s'", a.Host)
		}
	default:
		err = errors.Newf("metainfo: '%s' is not an i2p host", a.Host)
	}
	return
}

// I2PName returns the base32 name "<base32>.b32.i2p" of the I2P host.
func (a HostAddr) I2PName() (string, error) {
	if strings.HasSuffix(a.Host, ".b32.i2p") {
		return a.Host, nil
	}

	addr, err := a.I2PAddr()
	if err != nil {
		return "", err
	}
	return addr.DestHash().String(), nil
}
