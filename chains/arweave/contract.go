package arweave

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

// SmartWeave interaction tags
const (
	AppName       = "SmartWeaveAction"
	AppVersion    = "0.3.0"
	tagAppName    = "App-Name"
	tagAppVersion = "App-Version"
	tagContract   = "Contract"
	tagInput      = "Input"
)

var ErrInvalidID = errors.New("invalid arweave id")

// Input is a SmartWeave contract call. Implementations marshal to the
// input object without the function name, which EncodeInput adds.
type Input interface {
	Function() string
	Validate() error
}

type Stake struct {
	Qty int64 `json:"qty"`
}

func (Stake) Function() string { return "stake" }
func (Stake) Validate() error  { return nil }

type Withdraw struct {
	Qty int64 `json:"qty"`
}

func (Withdraw) Function() string { return "withdraw" }
func (Withdraw) Validate() error  { return nil }

// Transfer moves contract tokens, or NFT balance when sent to an NFT
// contract
type Transfer struct {
	Qty    int64  `json:"qty"`
	Target string `json:"target"`
}

func (Transfer) Function() string { return "transfer" }

func (in Transfer) Validate() error {
	if in.Qty < 1 {
		return fmt.Errorf("qty must be a positive integer")
	}
	if in.Target == "" {
		return fmt.Errorf("target must not be empty")
	}
	return nil
}

type Mint struct {
	Qty    int64  `json:"qty"`
	Target string `json:"target"`
}

func (Mint) Function() string { return "mint" }
func (Mint) Validate() error  { return nil }

type BurnKoi struct {
	ContractID  string `json:"contractId"`
	ContentType string `json:"contentType"`
	ContentTxID string `json:"contentTxId"`
}

func (BurnKoi) Function() string { return "burnKoi" }

func (in BurnKoi) Validate() error {
	return assertIDs(in.ContractID)
}

type LockBounty struct {
	ContractID string `json:"contractId"`
	Bounty     int64  `json:"bounty"`
}

func (LockBounty) Function() string { return "lockBounty" }

func (in LockBounty) Validate() error {
	return assertIDs(in.ContractID)
}

type MigratePreRegister struct{}

func (MigratePreRegister) Function() string { return "migratePreRegister" }
func (MigratePreRegister) Validate() error  { return nil }

// SyncOwnership encodes a single id as a string and several as an array
type SyncOwnership struct {
	TxIDs []string `json:"-"`
}

func (SyncOwnership) Function() string { return "syncOwnership" }

func (in SyncOwnership) Validate() error {
	if len(in.TxIDs) == 0 {
		return fmt.Errorf("%w: no txId", ErrInvalidID)
	}
	return assertIDs(in.TxIDs...)
}

func (in SyncOwnership) MarshalJSON() ([]byte, error) {
	if len(in.TxIDs) == 1 {
		return json.Marshal(map[string]string{"txId": in.TxIDs[0]})
	}
	return json.Marshal(map[string][]string{"txId": in.TxIDs})
}

func assertIDs(ids ...string) error {
	for _, id := range ids {
		if !ValidID(id) {
			return fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}
	return nil
}

// EncodeInput validates in and returns its JSON with the function name
func EncodeInput(in Input) ([]byte, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}
	fn, _ := json.Marshal(in.Function())
	fields["function"] = fn

	return json.Marshal(fields)
}

// NewInteraction builds the unsigned transaction that calls contractID
// with input
func NewInteraction(contractID string, in Input) (*Transaction, error) {
	if err := assertIDs(contractID); err != nil {
		return nil, err
	}
	input, err := EncodeInput(in)
	if err != nil {
		return nil, err
	}

	nonce, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	tx := NewTransaction([]byte(fmt.Sprintf("%04d", nonce.Int64())))
	tx.AddTag(tagAppName, AppName)
	tx.AddTag(tagAppVersion, AppVersion)
	tx.AddTag(tagContract, contractID)
	tx.AddTag(tagInput, string(input))
	return tx, nil
}
