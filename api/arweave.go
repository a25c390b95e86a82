package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"
)

const blockTemplate = `
  pageInfo {
    hasNextPage
  }
  edges {
    cursor
    node {
      id anchor signature recipient
      owner { address key }
      fee { winston ar }
      quantity { winston ar }
      data { size type }
      tags { name value }
      block { id timestamp height previous }
      parent { id }
    }
  }`

func parseBigInt(op string, body []byte) (*big.Int, error) {
	s := strings.TrimSpace(string(body))
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%s: invalid number %q", op, s)
	}
	return n, nil
}

// WalletBalance returns the winston held by address
func (c *Client) WalletBalance(ctx context.Context, address string) (*big.Int, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/wallet/%s/balance", c.cfg.Gateway, url.PathEscape(address)))
	if err != nil {
		return nil, err
	}
	return parseBigInt("balance", body)
}

// Price returns the winston reward for storing size bytes, including the
// new-wallet fee when target is set and unknown to the network
func (c *Client) Price(ctx context.Context, size int, target string) (*big.Int, error) {
	endpoint := fmt.Sprintf("%s/price/%d", c.cfg.Gateway, size)
	if target != "" {
		endpoint += "/" + url.PathEscape(target)
	}
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return parseBigInt("price", body)
}

// TxAnchor returns a recent anchor to use as last_tx
func (c *Client) TxAnchor(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.cfg.Gateway+"/tx_anchor")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// PostTransaction submits a signed transaction
func (c *Client) PostTransaction(ctx context.Context, tx interface{}) error {
	return c.postJSON(ctx, c.cfg.Gateway+"/tx", tx, nil)
}

// Transaction fetches the raw transaction document by id
func (c *Client) Transaction(ctx context.Context, id string) (json.RawMessage, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/tx/%s", c.cfg.Gateway, url.PathEscape(id)))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *Client) Info(ctx context.Context) (*NetworkInfo, error) {
	var info NetworkInfo
	if err := c.getJSON(ctx, c.cfg.Gateway+"/info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) BlockHeight(ctx context.Context) (int64, error) {
	info, err := c.Info(ctx)
	if err != nil {
		return 0, err
	}
	return info.Height, nil
}

// GQL runs a GraphQL query against the gateway and decodes its data field
// into out
func (c *Client) GQL(ctx context.Context, query string, out interface{}) error {
	var resp gqlResponse
	if err := c.postJSON(ctx, c.cfg.Gateway+"/graphql", map[string]string{"query": query}, &resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("graphql: %s", resp.Errors[0].Message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse graphql data: %w", err)
	}
	return nil
}

// OwnedTransactions lists transactions signed by wallet. count <= 0 uses
// the gateway default page size; cursor continues after a previous edge.
func (c *Client) OwnedTransactions(ctx context.Context, wallet string, count int, cursor string) (*TransactionsPage, error) {
	return c.transactions(ctx, "owners", wallet, count, cursor)
}

// RecipientTransactions lists transactions sent to wallet
func (c *Client) RecipientTransactions(ctx context.Context, wallet string, count int, cursor string) (*TransactionsPage, error) {
	return c.transactions(ctx, "recipients", wallet, count, cursor)
}

func (c *Client) transactions(ctx context.Context, filter, wallet string, count int, cursor string) (*TransactionsPage, error) {
	var data struct {
		Transactions TransactionsPage `json:"transactions"`
	}
	if err := c.GQL(ctx, transactionsQuery(filter, wallet, count, cursor), &data); err != nil {
		return nil, err
	}
	return &data.Transactions, nil
}

func transactionsQuery(filter, wallet string, count int, cursor string) string {
	args := fmt.Sprintf("%s:[%s]", filter, strconv.Quote(wallet))
	if count > 0 {
		args += fmt.Sprintf(", first: %d", count)
	}
	if cursor != "" {
		args += fmt.Sprintf(", after: %s", strconv.Quote(cursor))
	}
	return fmt.Sprintf("query {\n  transactions(%s) {%s\n  }\n}", args, blockTemplate)
}
