package tasks

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
)

const stakePotPrefix = "stakepotaccount"

// NewStakePotAccount returns a fresh address starting with "stakepotaccount".
// Candidates whose bytes are not a valid curve point are discarded.
func NewStakePotAccount() (solana.PublicKey, error) {
	for {
		key, err := solana.NewRandomPrivateKey()
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("failed to generate keypair: %w", err)
		}
		if pub, ok := stakePotFrom(key.PublicKey()); ok {
			return pub, nil
		}
	}
}

func stakePotFrom(seed solana.PublicKey) (solana.PublicKey, bool) {
	encoded := seed.String()
	if len(encoded) <= len(stakePotPrefix) {
		return solana.PublicKey{}, false
	}
	pub, err := solana.PublicKeyFromBase58(stakePotPrefix + encoded[len(stakePotPrefix):])
	if err != nil {
		return solana.PublicKey{}, false
	}
	if !isOnCurve(pub) {
		return solana.PublicKey{}, false
	}
	return pub, true
}

func isOnCurve(pub solana.PublicKey) bool {
	_, err := new(edwards25519.Point).SetBytes(pub[:])
	return err == nil
}
