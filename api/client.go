// API Client
//
// Files:
//
//	config.go   - endpoints and client configuration
//	types.go    - response structs (network info, GraphQL pages, prices)
//	base.go     - core client (rate limiting, circuit breaker, helpers)
//	arweave.go  - Arweave gateway (balance, price, anchor, post, graphql)
//	bundler.go  - Koii bundler (contract state, attention, service nodes)
//
// Usage:
//
//	client := api.NewClient(api.DefaultConfig())
//	winston, err := client.WalletBalance(ctx, address)
//	state, err := client.KoiiState(ctx)
package api
