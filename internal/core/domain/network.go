package domain

import (
	"fmt"
	"strings"
)

// Network identifies the ledger an address belongs to.
type Network string

const (
	NetworkEthereum Network = "ethereum"
	NetworkCardano  Network = "cardano"
)

// Address prefixes used for classification.
const (
	prefixEthereum       = "0x"
	prefixCardano        = "addr1"
	prefixCardanoTestnet = "addr_test1"
)

// SampleAddresses holds one known address per network, used when demo mode
// runs without user input.
var SampleAddresses = map[Network]string{
	NetworkEthereum: "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
	NetworkCardano:  "addr1q9jx0gxyjz5sx4gmwgu3z2hdqq67dnw2h9xmc8k45td90vlpukr79dc4w22lv7yumwnz0mn4048322vhm4d9p3cpv9cswhrz06",
}

// Networks lists every supported network.
var Networks = []Network{NetworkEthereum, NetworkCardano}

// Valid reports whether n is a supported network.
func (n Network) Valid() bool {
	return n == NetworkEthereum || n == NetworkCardano
}

func (n Network) String() string {
	return string(n)
}

// ParseNetwork converts a user supplied name into a Network.
func ParseNetwork(s string) (Network, error) {
	n := Network(strings.ToLower(strings.TrimSpace(s)))
	if !n.Valid() {
		return "", fmt.Errorf("unsupported network %q", s)
	}
	return n, nil
}

// Classify maps a raw address to its network using prefix rules.
// Cardano prefixes are checked last and win over the Ethereum check.
// When no prefix matches, current is returned unchanged.
func Classify(raw string, current Network) Network {
	detected := current

	if strings.HasPrefix(raw, prefixEthereum) {
		detected = NetworkEthereum
	}

	if strings.HasPrefix(raw, prefixCardano) || strings.HasPrefix(raw, prefixCardanoTestnet) {
		detected = NetworkCardano
	}

	return detected
}
