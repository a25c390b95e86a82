package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/chinmay1088/ktools/chains/arweave"
	"github.com/shopspring/decimal"
)

// KoiiState fetches the current Koii contract state
func (c *Client) KoiiState(ctx context.Context) (*KoiiState, error) {
	body, err := c.get(ctx, c.cfg.Bundler+"/state")
	if err != nil {
		return nil, err
	}
	var state KoiiState
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}
	state.Raw = body
	return &state, nil
}

// KoiiBalance returns the KOII balance of address from the contract state,
// zero when the address holds none
func (c *Client) KoiiBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	state, err := c.KoiiState(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return state.Balances[address], nil
}

// State fetches the cached state of a contract by its id
func (c *Client) State(ctx context.Context, txID string) (json.RawMessage, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/%s", c.cfg.Bundler, url.PathEscape(txID)))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// NftState fetches an NFT state including attention and reward
func (c *Client) NftState(ctx context.Context, id string) (*NftState, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/attention/nft?id=%s", c.cfg.Bundler, url.QueryEscape(id)))
	if err != nil {
		return nil, err
	}
	var state NftState
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("failed to parse nft state: %w", err)
	}
	state.Raw = body
	return &state, nil
}

// AttentionID returns the id of the attention contract run by the bundler
func (c *Client) AttentionID(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.cfg.Bundler+"/attention/id")
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(string(body)), `"`), nil
}

// Nodes returns the service nodes registered with the bundler at base, or
// the configured bundler when base is empty. An unparsable list yields no
// nodes.
func (c *Client) Nodes(ctx context.Context, base string) ([]arweave.Payload, error) {
	if base == "" {
		base = c.cfg.Bundler
	}
	body, err := c.get(ctx, strings.TrimRight(base, "/")+"/nodes")
	if err != nil {
		return nil, err
	}

	nodes := []arweave.Payload{}
	if err := json.Unmarshal(body, &nodes); err != nil {
		// some bundlers double encode the list
		var inner string
		if json.Unmarshal(body, &inner) != nil || json.Unmarshal([]byte(inner), &nodes) != nil {
			return []arweave.Payload{}, nil
		}
	}
	return nodes, nil
}
