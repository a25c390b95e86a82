package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PriceData represents cryptocurrency price information
type PriceData struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"current_price"`
	USD    decimal.Decimal `json:"usd"`
}

// NetworkInfo is the gateway /info response
type NetworkInfo struct {
	Network          string `json:"network"`
	Version          int    `json:"version"`
	Height           int64  `json:"height"`
	Current          string `json:"current"`
	Blocks           int64  `json:"blocks"`
	Peers            int64  `json:"peers"`
	QueueLength      int64  `json:"queue_length"`
	NodeStateLatency int64  `json:"node_state_latency"`
}

type Amount struct {
	Winston string `json:"winston"`
	AR      string `json:"ar"`
}

type GQLTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type GQLBlock struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Height    int64  `json:"height"`
	Previous  string `json:"previous"`
}

// GQLTransaction is a transaction node of a GraphQL transactions query
type GQLTransaction struct {
	ID        string `json:"id"`
	Anchor    string `json:"anchor"`
	Signature string `json:"signature"`
	Recipient string `json:"recipient"`
	Owner     struct {
		Address string `json:"address"`
		Key     string `json:"key"`
	} `json:"owner"`
	Fee      Amount `json:"fee"`
	Quantity Amount `json:"quantity"`
	Data     struct {
		Size string `json:"size"`
		Type string `json:"type"`
	} `json:"data"`
	Tags   []GQLTag  `json:"tags"`
	Block  *GQLBlock `json:"block"`
	Parent *struct {
		ID string `json:"id"`
	} `json:"parent"`
}

type TransactionEdge struct {
	Cursor string         `json:"cursor"`
	Node   GQLTransaction `json:"node"`
}

// TransactionsPage is one page of a GraphQL transactions query
type TransactionsPage struct {
	PageInfo struct {
		HasNextPage bool `json:"hasNextPage"`
	} `json:"pageInfo"`
	Edges []TransactionEdge `json:"edges"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// KoiiState is the Koii contract state served by the bundler. Only the
// balances are decoded; the full document is kept in Raw.
type KoiiState struct {
	Balances map[string]decimal.Decimal `json:"balances"`
	Raw      json.RawMessage            `json:"-"`
}

// NftState is the attention state of an NFT
type NftState struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Owner     string          `json:"owner"`
	Attention int64           `json:"attention"`
	Reward    decimal.Decimal `json:"reward"`
	Raw       json.RawMessage `json:"-"`
}
