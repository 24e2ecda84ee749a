package uuidx_test

import (
	"testing"

	"github.com/lanternmc/yggdrasil/pkg/uuidx"
	"github.com/stretchr/testify/require"
)

func TestNewIsDashedAndValid(t *testing.T) {
	id := uuidx.New()
	require.Len(t, id, 36)
	require.True(t, uuidx.IsValid(id))
}

func TestDashedUndashedRoundTrip(t *testing.T) {
	const dashed = "069a79f4-44e9-4726-a5be-fca90e38aaf5"
	const undashed = "069a79f444e94726a5befca90e38aaf5"

	require.Equal(t, undashed, uuidx.Undashed(dashed))
	require.Equal(t, dashed, uuidx.Dashed(undashed))

	// Already-normalized inputs pass through unchanged.
	require.Equal(t, dashed, uuidx.Dashed(dashed))
	require.Equal(t, undashed, uuidx.Undashed(undashed))
}

func TestInvalidInputs(t *testing.T) {
	require.False(t, uuidx.IsValid("nope"))
	require.Empty(t, uuidx.Dashed("nope"))
	require.Empty(t, uuidx.Undashed(""))
}
