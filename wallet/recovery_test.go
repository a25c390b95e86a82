package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	solchain "github.com/chinmay1088/ktools/chains/solana"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDerive maps a path to a predictable address
func fakeDerive(_ []byte, path string) (*Keypair, error) {
	if path == "bad" {
		return nil, fmt.Errorf("cannot derive %s", path)
	}
	return &Keypair{Path: path, Address: "addr:" + path}, nil
}

type balanceBook struct {
	balances map[string]int64
	failing  map[string]bool
	queried  []string
}

func (b *balanceBook) balance(_ context.Context, address string) (*big.Int, error) {
	b.queried = append(b.queried, address)
	if b.failing[address] {
		return nil, errors.New("connection refused")
	}
	return big.NewInt(b.balances[address]), nil
}

func fallbackPaths(n int) []string {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("m/44'/501'/%d'", i)
	}
	return paths
}

func TestRecoverFromSeed(t *testing.T) {
	fallback := fallbackPaths(5)

	tests := []struct {
		name     string
		balances map[string]int64
		failing  map[string]bool
		wantPath string
		queries  int
	}{
		{
			name:     "default funded",
			balances: map[string]int64{"addr:default": 1},
			wantPath: "default",
			queries:  1,
		},
		{
			name:     "first fallback funded",
			balances: map[string]int64{"addr:" + fallback[0]: 10},
			wantPath: fallback[0],
			queries:  2,
		},
		{
			name:     "fallback index 3 funded",
			balances: map[string]int64{"addr:" + fallback[3]: 10, "addr:" + fallback[4]: 10},
			wantPath: fallback[3],
			queries:  3 + 2,
		},
		{
			name:     "nothing funded",
			wantPath: "default",
			queries:  1 + len(fallback),
		},
		{
			name:     "query failures count as empty",
			balances: map[string]int64{"addr:" + fallback[2]: 10},
			failing:  map[string]bool{"addr:default": true, "addr:" + fallback[0]: true},
			wantPath: fallback[2],
			queries:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := &balanceBook{balances: tt.balances, failing: tt.failing}
			r := NewRecovery(fakeDerive, book.balance)

			kp, err := r.RecoverFromSeed(context.Background(), nil, "default", fallback)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, kp.Path)
			assert.Len(t, book.queried, tt.queries)
		})
	}
}

func TestRecoverQueryOrder(t *testing.T) {
	fallback := fallbackPaths(3)
	book := &balanceBook{}
	var steps []int

	r := NewRecovery(fakeDerive, book.balance)
	r.Progress = func(step, total int, path string) {
		assert.Equal(t, 4, total)
		steps = append(steps, step)
	}

	_, err := r.RecoverFromSeed(context.Background(), nil, "default", fallback)
	require.NoError(t, err)
	assert.Equal(t, []string{"addr:default", "addr:" + fallback[0], "addr:" + fallback[1], "addr:" + fallback[2]}, book.queried)
	assert.Equal(t, []int{1, 2, 3, 4}, steps)
}

func TestRecoverSkipsUnderivablePaths(t *testing.T) {
	book := &balanceBook{balances: map[string]int64{"addr:last": 5}}
	r := NewRecovery(fakeDerive, book.balance)

	kp, err := r.RecoverFromSeed(context.Background(), nil, "default", []string{"bad", "last"})
	require.NoError(t, err)
	assert.Equal(t, "last", kp.Path)
	assert.Equal(t, []string{"addr:default", "addr:last"}, book.queried)

	_, err = r.RecoverFromSeed(context.Background(), nil, "bad", nil)
	assert.Error(t, err)
}

func TestRecoverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	balance := func(ctx context.Context, address string) (*big.Int, error) {
		calls++
		if calls == 2 {
			cancel()
			return nil, ctx.Err()
		}
		return big.NewInt(0), nil
	}

	r := NewRecovery(fakeDerive, balance)
	kp, err := r.RecoverFromSeed(ctx, nil, "default", fallbackPaths(10))
	assert.Nil(t, kp)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 2, calls)
}

func TestRecoverInvalidMnemonic(t *testing.T) {
	book := &balanceBook{}
	r := NewRecovery(fakeDerive, book.balance)

	_, err := r.Recover(context.Background(), "neglect trigger better derive", "default", nil)
	assert.True(t, errors.Is(err, ErrInvalidMnemonic))
	assert.Empty(t, book.queried)
}

func TestRecoverFundedFallbackAccount(t *testing.T) {
	book := &balanceBook{balances: map[string]int64{subAddress: 1_000_000_000}}
	r := NewRecovery(DeriveSolanaKeypair, book.balance)

	kp, err := r.Recover(context.Background(), testMnemonic, SolanaDefaultPath, SolanaFallbackPaths())
	require.NoError(t, err)
	assert.Equal(t, subAddress, kp.Address)
	assert.Equal(t, subKey, solchain.FormatSecretKey(kp.SecretKey))
	assert.Equal(t, mainAddress, book.queried[0])
}

func TestRecoverDefaultAccount(t *testing.T) {
	book := &balanceBook{}
	r := NewRecovery(DeriveSolanaKeypair, book.balance)

	kp, err := r.Recover(context.Background(), testMnemonic, SolanaDefaultPath, SolanaFallbackPaths())
	require.NoError(t, err)
	assert.Equal(t, mainAddress, kp.Address)
	assert.Equal(t, mainKey, solchain.FormatSecretKey(kp.SecretKey))
	assert.Len(t, book.queried, 41)
}

func TestNewMnemonic(t *testing.T) {
	m, err := NewMnemonic(128)
	require.NoError(t, err)
	assert.True(t, IsMnemonic(m))
	assert.True(t, IsMnemonic("  "+testMnemonic+"\n"))
	assert.False(t, IsMnemonic("neglect trigger"))
}
