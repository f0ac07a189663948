package clierror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIErrorBuilder(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "code and message compose the error string",
			err: New().WithCode("rpc_failed").
				Msg("request to AUR RPC failed"),
			assertFn: func(t *testing.T, err error) {
				assert.Equal(t, "rpc_failed: request to AUR RPC failed", err.Error())
			},
		},
		{
			name: "wrapped cause is preserved for errors.Is",
			err:  New().WithCode("io_failed").Wrap(errSentinel),
			assertFn: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, errSentinel))
			},
		},
		{
			name: "human and hint fall back to safe defaults",
			err:  New().Msg("boom"),
			assertFn: func(t *testing.T, err error) {
				ce, ok := As(err)
				require.True(t, ok)
				assert.Equal(t, "An unexpected error occurred.", ce.Human())
				assert.Equal(t, "unknown", ce.Code())
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.assertFn(t, tc.err)
		})
	}
}

var errSentinel = errors.New("sentinel")

func TestAsThroughWrapping(t *testing.T) {
	inner := New().WithCode("inner_code").Msg("inner")
	wrapped := fmt.Errorf("outer context: %w", inner)

	ce, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "inner_code", ce.Code())
	assert.True(t, HasCode(wrapped, "inner_code"))
	assert.False(t, HasCode(wrapped, "other_code"))
}

func TestAsNonCLIError(t *testing.T) {
	_, ok := As(errors.New("plain"))
	assert.False(t, ok)

	_, ok = As(nil)
	assert.False(t, ok)
}
