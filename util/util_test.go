package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringToUint64(t *testing.T) {
	v, err := StringToUint64("254000000")
	require.NoError(t, err)
	assert.Equal(t, uint64(254000000), v)

	_, err = StringToUint64("-1")
	assert.Error(t, err)
	_, err = StringToUint64("slot")
	assert.Error(t, err)
}

func TestStringToInt64(t *testing.T) {
	v, err := StringToInt64("-42")
	require.NoError(t, err)
	assert.Equal(t, int64(-42), v)
}

func TestUint64RoundTrip(t *testing.T) {
	assert.Equal(t, "100", Uint64ToString(100))
	assert.Equal(t, "-5", Int64ToString(-5))
}

func TestDecodeInstructionData(t *testing.T) {
	assert.Equal(t, []byte{}, DecodeInstructionData(""))
	assert.Equal(t, []byte("x"), DecodeInstructionData("eA=="))
	// Anything that is not valid base64 is stored verbatim.
	assert.Equal(t, []byte("not valid base64!"), DecodeInstructionData("not valid base64!"))
}
