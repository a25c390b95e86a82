package chains

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNetworkError(t *testing.T) {
	assert.NoError(t, NewNetworkError("getBalance", nil))

	err := NewNetworkError("getBalance", context.DeadlineExceeded)
	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
	assert.Equal(t, "getBalance", netErr.Op)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "getBalance: context deadline exceeded", err.Error())

	wrapped := NewNetworkError("transfer", err)
	assert.Same(t, err, wrapped)
}
