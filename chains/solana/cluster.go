package solana

import (
	"fmt"
	"regexp"
)

// Cluster names understood by ClusterURL
const (
	Devnet      = "devnet"
	Testnet     = "testnet"
	MainnetBeta = "mainnet-beta"
)

// K2TestnetURL is the public RPC of the Koii K2 testnet
const K2TestnetURL = "https://testnet.koii.live"

var endpoints = map[string]map[string]string{
	"http": {
		Devnet:      "http://api.devnet.solana.com",
		Testnet:     "http://api.testnet.solana.com",
		MainnetBeta: "http://api.mainnet-beta.solana.com",
	},
	"https": {
		Devnet:      "https://api.devnet.solana.com",
		Testnet:     "https://api.testnet.solana.com",
		MainnetBeta: "https://api.mainnet-beta.solana.com",
	},
}

var urlRegex = regexp.MustCompile(`(?i)^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})([/\w .-]*)*/?$`)

// ClusterURL returns the public RPC endpoint of a Solana cluster. An empty
// cluster resolves to devnet.
func ClusterURL(cluster string, tls bool) (string, error) {
	scheme := "https"
	if !tls {
		scheme = "http"
	}

	if cluster == "" {
		return endpoints[scheme][Devnet], nil
	}

	url, ok := endpoints[scheme][cluster]
	if !ok {
		return "", fmt.Errorf("unknown %s cluster: %s", scheme, cluster)
	}
	return url, nil
}

// K2ClusterURL resolves a K2 network. URLs are passed through unchanged,
// testnet maps to the Koii testnet and anything else is resolved as a
// Solana cluster.
func K2ClusterURL(cluster string) (string, error) {
	if urlRegex.MatchString(cluster) {
		return cluster, nil
	}
	if cluster == Testnet {
		return K2TestnetURL, nil
	}
	return ClusterURL(cluster, true)
}
