package configuration

import (
	"fmt"
	"math/big"
	"net"
	"strconv"

	ma "github.com/multiformats/go-multiaddr"
)

const (
	MinPort = 1
	MaxPort = 65535
)

// WildcardNetworkID accepts whatever network the node reports.
const WildcardNetworkID NetworkID = "*"

// NetworkID is either a decimal network identifier or the wildcard "*".
type NetworkID string

func (id NetworkID) IsWildcard() bool {
	return id == WildcardNetworkID
}

func (id NetworkID) valid() bool {
	if id.IsWildcard() {
		return true
	}
	if id == "" {
		return false
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// BigInt returns the numeric identifier, or nil for the wildcard.
func (id NetworkID) BigInt() *big.Int {
	if id.IsWildcard() {
		return nil
	}
	n, ok := new(big.Int).SetString(string(id), 10)
	if !ok {
		return nil
	}
	return n
}

// Matches reports whether a node announcing actual satisfies id.
func (id NetworkID) Matches(actual *big.Int) bool {
	if id.IsWildcard() {
		return true
	}
	want := id.BigInt()
	if want == nil || actual == nil {
		return false
	}
	return want.Cmp(actual) == 0
}

type NetworkProfile struct {
	Host      string    `json:"host" yaml:"host"`
	Port      int       `json:"port" yaml:"port"`
	NetworkID NetworkID `json:"network_id" yaml:"network_id"`
}

func (p NetworkProfile) Endpoint() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// URL is the JSON-RPC address of the node.
func (p NetworkProfile) URL() string {
	return "http://" + p.Endpoint()
}

func (p NetworkProfile) Multiaddr() (ma.Multiaddr, error) {
	proto := "dns"
	if ip := net.ParseIP(p.Host); ip != nil {
		if ip.To4() != nil {
			proto = "ip4"
		} else {
			proto = "ip6"
		}
	}

	return ma.NewMultiaddr(fmt.Sprintf("/%s/%s/tcp/%d", proto, p.Host, p.Port))
}
