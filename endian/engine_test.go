package endian

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngines(t *testing.T) {
	le := GetLittleEndianEngine()
	be := GetBigEndianEngine()

	require.Equal(t, binary.ByteOrder(binary.LittleEndian), binary.ByteOrder(le))
	require.Equal(t, binary.ByteOrder(binary.BigEndian), binary.ByteOrder(be))
}

func TestFloat64RoundTrip(t *testing.T) {
	values := []float64{0, 1.5, -2.25, math.Inf(1), math.Inf(-1), math.MaxFloat64}

	for _, engine := range []EndianEngine{GetLittleEndianEngine(), GetBigEndianEngine()} {
		for _, v := range values {
			buf := engine.AppendUint64(nil, math.Float64bits(v))
			require.Len(t, buf, 8)
			require.Equal(t, v, math.Float64frombits(engine.Uint64(buf)))
		}
	}
}

func TestCheckEndianness(t *testing.T) {
	native := CheckEndianness()
	require.NotNil(t, native)

	// Exactly one of the two predicates holds.
	require.NotEqual(t, IsNativeLittleEndian(), IsNativeBigEndian())

	if IsNativeLittleEndian() {
		require.Equal(t, binary.ByteOrder(binary.LittleEndian), native)
	} else {
		require.Equal(t, binary.ByteOrder(binary.BigEndian), native)
	}
}

func TestGetNativeEngine(t *testing.T) {
	engine := GetNativeEngine()
	require.Equal(t, CheckEndianness(), binary.ByteOrder(engine))

	if IsNativeBigEndian() {
		require.Equal(t, GetBigEndianEngine(), engine)
	} else {
		require.Equal(t, GetLittleEndianEngine(), engine)
	}
}
