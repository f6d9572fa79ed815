package snapshot

import (
	"fmt"
	"math"

	"github.com/arloliu/uncmc/endian"
	"github.com/arloliu/uncmc/errs"
	"github.com/arloliu/uncmc/format"
)

const (
	// MagicNumber identifies a quantity snapshot ("UMC1" big-endian).
	MagicNumber uint32 = 0x554D4331

	// HeaderSize is the fixed byte length of the snapshot header.
	HeaderSize = 64

	flagBigEndian uint8 = 0x01
)

// Header is the fixed-size snapshot header preceding the compressed sample
// payload.
//
// Header fields are always little-endian; the endianness flag applies to
// the payload floats only. Layout (64 bytes):
//
//	offset  size  field
//	0       4     magic number
//	4       1     flags (bit 0: payload byte order, 1 = big-endian)
//	5       1     compression type
//	6       2     reserved
//	8       8     mean (IEEE-754)
//	16      8     sigma low
//	24      8     sigma up
//	32      8     lower bound
//	40      8     upper bound
//	48      8     sample count
//	56      8     xxhash64 checksum of the compressed payload
type Header struct {
	Flags       uint8
	Compression format.CompressionType
	Mean        float64
	SigmaLow    float64
	SigmaUp     float64
	Lower       float64
	Upper       float64
	SampleCount uint64
	Checksum    uint64
}

// BigEndianPayload reports whether the payload floats are big-endian.
func (h *Header) BigEndianPayload() bool {
	return h.Flags&flagBigEndian != 0
}

// Engine returns the byte-order engine matching the payload flag.
func (h *Header) Engine() endian.EndianEngine {
	if h.BigEndianPayload() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// Bytes serializes the header into its fixed 64-byte form.
func (h *Header) Bytes() []byte {
	le := endian.GetLittleEndianEngine()

	buf := make([]byte, 0, HeaderSize)
	buf = le.AppendUint32(buf, MagicNumber)
	buf = append(buf, h.Flags, uint8(h.Compression), 0, 0)
	buf = le.AppendUint64(buf, math.Float64bits(h.Mean))
	buf = le.AppendUint64(buf, math.Float64bits(h.SigmaLow))
	buf = le.AppendUint64(buf, math.Float64bits(h.SigmaUp))
	buf = le.AppendUint64(buf, math.Float64bits(h.Lower))
	buf = le.AppendUint64(buf, math.Float64bits(h.Upper))
	buf = le.AppendUint64(buf, h.SampleCount)
	buf = le.AppendUint64(buf, h.Checksum)

	return buf
}

// ParseHeader decodes and validates a snapshot header.
//
// Returns:
//   - *Header: The decoded header
//   - error: ErrInvalidHeaderSize for short input, ErrInvalidMagicNumber for
//     foreign data, or an invalid compression type error
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", errs.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	le := endian.GetLittleEndianEngine()

	if magic := le.Uint32(data[0:4]); magic != MagicNumber {
		return nil, fmt.Errorf("%w: 0x%08X", errs.ErrInvalidMagicNumber, magic)
	}

	h := &Header{
		Flags:       data[4],
		Compression: format.CompressionType(data[5]),
		Mean:        math.Float64frombits(le.Uint64(data[8:16])),
		SigmaLow:    math.Float64frombits(le.Uint64(data[16:24])),
		SigmaUp:     math.Float64frombits(le.Uint64(data[24:32])),
		Lower:       math.Float64frombits(le.Uint64(data[32:40])),
		Upper:       math.Float64frombits(le.Uint64(data[40:48])),
		SampleCount: le.Uint64(data[48:56]),
		Checksum:    le.Uint64(data[56:64]),
	}

	if !h.Compression.Valid() {
		return nil, fmt.Errorf("invalid snapshot compression type: 0x%02X", uint8(h.Compression))
	}

	return h, nil
}
