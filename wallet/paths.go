package wallet

import "fmt"

const (
	// SolanaDefaultPath is the account Phantom derives first
	SolanaDefaultPath = "m/44'/501'/0'/0'"
	// K2DefaultPath is the account the Finnie wallet derives for K2
	K2DefaultPath = "m/44'/501'/0'"
	// EthereumDefaultPath is the first BIP-44 Ethereum account
	EthereumDefaultPath = "m/44'/60'/0'/0/0"

	// RawSeedPath is a pseudo path selecting the keypair built from the
	// first 32 bytes of the BIP-39 seed, as the Koii CLI does
	RawSeedPath = "seed[0:32]"

	solanaFallbackAccounts = 20
)

// SolanaFallbackPaths lists the accounts searched when the default Solana
// account is empty: for each account index the Phantom style path followed
// by the Solflare style one
func SolanaFallbackPaths() []string {
	paths := make([]string, 0, 2*solanaFallbackAccounts)
	for i := 0; i < solanaFallbackAccounts; i++ {
		paths = append(paths,
			fmt.Sprintf("m/44'/501'/%d'/0'", i),
			fmt.Sprintf("m/44'/501'/%d'", i),
		)
	}
	return paths
}

// K2FallbackPaths lists the keys searched when the default K2 account is
// empty
func K2FallbackPaths() []string {
	return []string{RawSeedPath}
}

// LedgerLivePaths lists the first n Ethereum accounts in the layout used
// by Ledger Live, usable as an Ethereum fallback list
func LedgerLivePaths(n int) []string {
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		paths = append(paths, fmt.Sprintf("m/44'/60'/%d'/0/0", i))
	}
	return paths
}
