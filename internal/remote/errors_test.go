package remote

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("worker: %w", &RequestError{Op: "list", Target: "default", Err: ErrNotConnected})
	require.True(t, errors.Is(err, ErrNotConnected))

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "list", reqErr.Op)
	assert.Equal(t, "list default: not connected", reqErr.Error())
	assert.Equal(t, "not connected", Cause(err))
}

func TestConnectionErrorMessage(t *testing.T) {
	err := &ConnectionError{Address: "localhost:7233", Err: errors.New("refused")}
	assert.Equal(t, "connect localhost:7233: refused", err.Error())
	assert.Equal(t, "refused", Cause(err))
	assert.Equal(t, "connect: refused", (&ConnectionError{Err: errors.New("refused")}).Error())
}

func TestStatusNames(t *testing.T) {
	assert.Equal(t, "Running", StatusRunning.String())
	assert.Equal(t, "Unknown", Status(99).String())
	assert.True(t, StatusFailed.Closed())
	assert.False(t, StatusRunning.Closed())
	assert.Equal(t, "signal", MutationSignal.String())
}
