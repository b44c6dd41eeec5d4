package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var releases = []string{"0.7.6", "0.8.0", "0.8.4", "0.8.19", "0.8.x-nightly", "0.9.0"}

func TestParsePinKinds(t *testing.T) {
	cases := map[string]PinKind{
		"0.8.0":      PinKind_Exact,
		"v0.8.0":     PinKind_Exact,
		"^0.8.0":     PinKind_Range,
		">=0.7 <0.9": PinKind_Range,
		"native":     PinKind_Native,
		"PRAGMA":     PinKind_Pragma,
		"0.8":        PinKind_Range,
		"~0.8.4":     PinKind_Range,
	}
	for raw, want := range cases {
		pin, err := ParsePin(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, pin.Kind, raw)
		assert.Equal(t, raw, pin.String())
	}

	_, err := ParsePin("")
	assert.Error(t, err)
	_, err = ParsePin("latest-and-greatest")
	assert.Error(t, err)
}

func TestResolveExact(t *testing.T) {
	pin, err := ParsePin("0.8.0")
	require.NoError(t, err)
	assert.Equal(t, "0.8.0", pin.Version().String())

	got, err := pin.Resolve(releases)
	assert.Equal(t, nil, err)
	assert.Equal(t, "0.8.0", got)

	_, err = pin.Resolve([]string{"0.8.4"})
	assert.True(t, errors.Is(err, ErrNoMatchingRelease))
}

func TestResolveRangePicksHighest(t *testing.T) {
	pin, err := ParsePin("^0.8.0")
	require.NoError(t, err)

	got, err := pin.Resolve(releases)
	assert.Equal(t, nil, err)
	assert.Equal(t, "0.8.19", got)

	pin, err = ParsePin(">=0.7 <0.8")
	require.NoError(t, err)
	got, err = pin.Resolve(releases)
	assert.Equal(t, nil, err)
	assert.Equal(t, "0.7.6", got)
}

func TestResolveNativeAndPragma(t *testing.T) {
	for _, raw := range []string{"native", "pragma"} {
		pin, err := ParsePin(raw)
		require.NoError(t, err)
		_, err = pin.Resolve(releases)
		assert.True(t, errors.Is(err, ErrNotResolvable), raw)
		assert.False(t, pin.Satisfied("0.8.0"))
	}
}
