package ethereum

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/chinmay1088/ktools/chains"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ParsePrivateKey accepts a hex private key with or without 0x prefix
func ParsePrivateKey(s string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// FormatPrivateKey renders key as 0x-prefixed hex
func FormatPrivateKey(key *ecdsa.PrivateKey) string {
	return hexutil.Encode(crypto.FromECDSA(key))
}

// ParseAddress accepts a hex address. Mixed-case input must carry a valid
// EIP-55 checksum.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %s", chains.ErrInvalidAddress, s)
	}
	address := common.HexToAddress(s)
	hexPart := strings.TrimPrefix(s, "0x")
	if hexPart != strings.ToLower(hexPart) && hexPart != strings.ToUpper(hexPart) &&
		address.Hex() != "0x"+hexPart {
		return common.Address{}, fmt.Errorf("%w: bad checksum %s", chains.ErrInvalidAddress, s)
	}
	return address, nil
}

// SignMessage signs data with the EIP-191 personal message prefix
func SignMessage(key *ecdsa.PrivateKey, data []byte) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(data), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	return sig, nil
}

// RecoverSigner returns the address that produced sig over data
func RecoverSigner(data, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes", crypto.SignatureLength)
	}
	pub, err := crypto.SigToPub(accounts.TextHash(data), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
