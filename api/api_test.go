package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chinmay1088/ktools/chains"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.Gateway = srv.URL + "/"
	cfg.Bundler = srv.URL
	cfg.PriceAPI = srv.URL
	cfg.RateLimit = 0
	return NewClient(cfg)
}

func TestGatewayPlainEndpoints(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wallet/addr1/balance":
			io.WriteString(w, "1234567890123\n")
		case "/price/100/target1":
			io.WriteString(w, "4242")
		case "/price/100":
			io.WriteString(w, "42")
		case "/tx_anchor":
			io.WriteString(w, "anchor-value")
		case "/info":
			io.WriteString(w, `{"network":"arweave.N.1","height":1234,"peers":8}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, "not found")
		}
	})
	ctx := context.Background()

	bal, err := c.WalletBalance(ctx, "addr1")
	require.NoError(t, err)
	assert.Equal(t, "1234567890123", bal.String())

	price, err := c.Price(ctx, 100, "target1")
	require.NoError(t, err)
	assert.Equal(t, int64(4242), price.Int64())

	price, err = c.Price(ctx, 100, "")
	require.NoError(t, err)
	assert.Equal(t, int64(42), price.Int64())

	anchor, err := c.TxAnchor(ctx)
	require.NoError(t, err)
	assert.Equal(t, "anchor-value", anchor)

	height, err := c.BlockHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), height)

	_, err = c.WalletBalance(ctx, "missing")
	require.Error(t, err)
	var netErr *chains.NetworkError
	assert.True(t, errors.As(err, &netErr))
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestCircuitBreakerIgnoresClientErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantState gobreaker.State
	}{
		{"not found", http.StatusNotFound, gobreaker.StateClosed},
		{"bad request", http.StatusBadRequest, gobreaker.StateClosed},
		{"server error", http.StatusInternalServerError, gobreaker.StateOpen},
		{"bad gateway", http.StatusBadGateway, gobreaker.StateOpen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			for i := 0; i <= MaxNumOfFailingRequests; i++ {
				_, err := c.WalletBalance(context.Background(), "addr")
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, tt.status, statusErr.Code)
			}
			assert.Equal(t, tt.wantState, c.cb.State())

			_, err := c.WalletBalance(context.Background(), "addr")
			require.Error(t, err)
			assert.Equal(t, tt.wantState == gobreaker.StateOpen, errors.Is(err, gobreaker.ErrOpenState))
		})
	}
}

func TestWalletBalanceInvalidBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not a number")
	})
	_, err := c.WalletBalance(context.Background(), "addr")
	assert.Error(t, err)
}

func TestPostTransaction(t *testing.T) {
	var got map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tx", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, "OK")
	})

	err := c.PostTransaction(context.Background(), map[string]string{"id": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", got["id"])
}

func TestTransactionsQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   string
		count    int
		cursor   string
		contains []string
		excludes []string
	}{
		{
			name:     "owners default page",
			filter:   "owners",
			contains: []string{`transactions(owners:["wallet"])`, "hasNextPage", "owner { address key }"},
			excludes: []string{"first:", "after:"},
		},
		{
			name:     "recipients with paging",
			filter:   "recipients",
			count:    5,
			cursor:   "c1",
			contains: []string{`transactions(recipients:["wallet"], first: 5, after: "c1")`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := transactionsQuery(tt.filter, "wallet", tt.count, tt.cursor)
			for _, s := range tt.contains {
				assert.Contains(t, q, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, q, s)
			}
		})
	}
}

func TestOwnedTransactions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, strings.Contains(req["query"], `owners:["me"]`))
		io.WriteString(w, `{"data":{"transactions":{"pageInfo":{"hasNextPage":true},"edges":[
			{"cursor":"c1","node":{"id":"tx1","recipient":"you","quantity":{"winston":"10","ar":"0.00000000001"},
			"tags":[{"name":"App-Name","value":"SmartWeaveAction"}],"block":{"id":"b","height":7,"timestamp":100}}}]}}}`)
	})

	page, err := c.OwnedTransactions(context.Background(), "me", 10, "")
	require.NoError(t, err)
	assert.True(t, page.PageInfo.HasNextPage)
	require.Len(t, page.Edges, 1)
	node := page.Edges[0].Node
	assert.Equal(t, "tx1", node.ID)
	assert.Equal(t, "10", node.Quantity.Winston)
	require.NotNil(t, node.Block)
	assert.Equal(t, int64(7), node.Block.Height)
	assert.Equal(t, "SmartWeaveAction", node.Tags[0].Value)
}

func TestGQLErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"errors":[{"message":"bad query"}]}`)
	})
	err := c.GQL(context.Background(), "query {}", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad query")
}

func TestBundler(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/state":
			io.WriteString(w, `{"balances":{"alice":"12.5"},"ticker":"KOINV"}`)
		case "/attention/id":
			io.WriteString(w, `"attention-contract"`)
		case "/attention/nft":
			assert.Equal(t, "nft1", r.URL.Query().Get("id"))
			io.WriteString(w, `{"id":"nft1","title":"t","attention":3,"reward":"1.5"}`)
		case "/contract1":
			io.WriteString(w, `{"owner":"x"}`)
		}
	})
	ctx := context.Background()

	bal, err := c.KoiiBalance(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.RequireFromString("12.5")))

	bal, err = c.KoiiBalance(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, bal.IsZero())

	state, err := c.KoiiState(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(state.Raw), "KOINV")

	id, err := c.AttentionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "attention-contract", id)

	nft, err := c.NftState(ctx, "nft1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), nft.Attention)

	raw, err := c.State(ctx, "contract1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"x"}`, string(raw))
}

func TestNodes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"list", `[{"data":{"url":"a"},"signature":"s","owner":"o"}]`, 1},
		{"double encoded", `"[{\"data\":{\"url\":\"a\"}},{\"data\":{\"url\":\"b\"}}]"`, 2},
		{"garbage", `<html>`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/nodes", r.URL.Path)
				io.WriteString(w, tt.body)
			})
			nodes, err := c.Nodes(context.Background(), "")
			require.NoError(t, err)
			assert.NotNil(t, nodes)
			assert.Len(t, nodes, tt.want)
		})
	}
}

func TestGetPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		io.WriteString(w, `{"koii-network":{"usd":0.0123}}`)
	})

	price, err := c.GetPrice(context.Background(), "koii-network")
	require.NoError(t, err)
	assert.Equal(t, "0.0123", price.USD.String())

	_, err = c.GetPrice(context.Background(), "unknown")
	assert.Error(t, err)
}
