package wallet

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tyler-smith/go-bip39"
)

// BalanceFunc returns the balance of address in the chain's smallest unit
type BalanceFunc func(ctx context.Context, address string) (*big.Int, error)

// ProgressFunc is called before each balance query. step counts from 1.
type ProgressFunc func(step, total int, path string)

// Recovery searches a mnemonic's derivation paths for the account that
// holds funds
type Recovery struct {
	Derive   KeyDeriver
	Balance  BalanceFunc
	Progress ProgressFunc
}

func NewRecovery(derive KeyDeriver, balance BalanceFunc) *Recovery {
	return &Recovery{Derive: derive, Balance: balance}
}

// Recover validates mnemonic and picks its funded account. The default
// path wins when it holds a balance; otherwise the fallback paths are
// queried in order and the first funded one wins. When nothing is funded
// the default path keypair is returned.
func (r *Recovery) Recover(
	ctx context.Context, mnemonic, defaultPath string, fallback []string,
) (*Keypair, error) {
	seed, err := NewSeed(mnemonic)
	if err != nil {
		return nil, err
	}
	return r.RecoverFromSeed(ctx, seed, defaultPath, fallback)
}

// RecoverFromSeed runs the search for an already computed BIP-39 seed
func (r *Recovery) RecoverFromSeed(
	ctx context.Context, seed []byte, defaultPath string, fallback []string,
) (*Keypair, error) {
	total := 1 + len(fallback)

	kp, err := r.Derive(seed, defaultPath)
	if err != nil {
		return nil, fmt.Errorf("failed to derive default path: %w", err)
	}

	funded, err := r.funded(ctx, 1, total, kp)
	if err != nil {
		return nil, err
	}
	if funded {
		return kp, nil
	}

	for i, path := range fallback {
		candidate, err := r.Derive(seed, path)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("skipping fallback path")
			continue
		}

		funded, err := r.funded(ctx, i+2, total, candidate)
		if err != nil {
			return nil, err
		}
		if funded {
			return candidate, nil
		}
	}

	return kp, nil
}

// funded reports whether kp holds a balance. Query errors count as an
// empty account unless ctx is done.
func (r *Recovery) funded(ctx context.Context, step, total int, kp *Keypair) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if r.Progress != nil {
		r.Progress(step, total, kp.Path)
	}

	balance, err := r.Balance(ctx, kp.Address)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		log.WithError(err).WithFields(log.Fields{
			"path":    kp.Path,
			"address": kp.Address,
		}).Warn("balance query failed")
		return false, nil
	}

	log.WithFields(log.Fields{
		"path":    kp.Path,
		"address": kp.Address,
		"balance": balance,
	}).Debug("queried candidate")

	return balance != nil && balance.Sign() > 0, nil
}

// NewSeed validates mnemonic and returns its BIP-39 seed with an empty
// passphrase
func NewSeed(mnemonic string) ([]byte, error) {
	mnemonic = normalizeMnemonic(mnemonic)
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return seed, nil
}

// NewMnemonic returns a fresh phrase of bitSize entropy bits
func NewMnemonic(bitSize int) (string, error) {
	entropy, err := bip39.NewEntropy(bitSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

func IsMnemonic(s string) bool {
	return bip39.IsMnemonicValid(normalizeMnemonic(s))
}

func normalizeMnemonic(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
