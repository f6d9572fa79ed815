// Package snapshot persists quantities in a compact binary form.
//
// A retaining quantity carries its Monte-Carlo sample array, 8 MB at the
// default sample count, so the payload is stored compressed behind a fixed
// header carrying the summary statistics and an integrity checksum. A
// non-retaining quantity encodes its parameters alone with an empty
// payload.
//
//	data, err := snapshot.Encode(q, snapshot.WithCompression(format.CompressionLZ4))
//	...
//	q2, err := snapshot.Decode(data)
package snapshot

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/uncmc/compress"
	"github.com/arloliu/uncmc/endian"
	"github.com/arloliu/uncmc/errs"
	"github.com/arloliu/uncmc/format"
	"github.com/arloliu/uncmc/internal/options"
	"github.com/arloliu/uncmc/unc"
)

type encodeConfig struct {
	compression format.CompressionType
	engine      endian.EndianEngine
}

// EncodeOption configures Encode.
type EncodeOption = options.Option[*encodeConfig]

// WithCompression selects the payload compression. The default is zstd.
func WithCompression(typ format.CompressionType) EncodeOption {
	return options.New(func(cfg *encodeConfig) error {
		if !typ.Valid() {
			return fmt.Errorf("invalid snapshot compression type: 0x%02X", uint8(typ))
		}
		cfg.compression = typ

		return nil
	})
}

// WithBigEndianPayload stores the payload floats big-endian. The default is
// the host byte order; the header flag records the choice either way, so
// snapshots decode correctly across architectures.
func WithBigEndianPayload() EncodeOption {
	return options.NoError(func(cfg *encodeConfig) {
		cfg.engine = endian.GetBigEndianEngine()
	})
}

// Encode serializes a quantity into the snapshot wire form: a fixed header
// followed by the compressed sample payload.
//
// Parameters:
//   - q: The quantity to persist
//   - opts: Compression and byte-order options
//
// Returns:
//   - []byte: Header plus compressed payload
//   - error: Compression failures
func Encode(q *unc.Quantity, opts ...EncodeOption) ([]byte, error) {
	cfg := encodeConfig{
		compression: format.CompressionZstd,
		engine:      endian.GetNativeEngine(),
	}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	samples := q.Samples()

	var payload []byte
	if len(samples) > 0 {
		raw := make([]byte, 0, len(samples)*8)
		for _, v := range samples {
			raw = cfg.engine.AppendUint64(raw, math.Float64bits(v))
		}

		codec, err := compress.GetCodec(cfg.compression)
		if err != nil {
			return nil, err
		}
		payload, err = codec.Compress(raw)
		if err != nil {
			return nil, fmt.Errorf("compress snapshot payload: %w", err)
		}
	}

	bounds := q.Bounds()
	h := Header{
		Compression: cfg.compression,
		Mean:        q.Mean(),
		SigmaLow:    q.SigmaLow(),
		SigmaUp:     q.SigmaUp(),
		Lower:       bounds[0],
		Upper:       bounds[1],
		SampleCount: uint64(len(samples)),
		Checksum:    xxhash.Sum64(payload),
	}
	if cfg.engine == endian.GetBigEndianEngine() {
		h.Flags |= flagBigEndian
	}

	out := make([]byte, 0, HeaderSize+len(payload))
	out = append(out, h.Bytes()...)
	out = append(out, payload...)

	return out, nil
}

// Decode restores a quantity from its snapshot wire form. Quantities with a
// sample payload come back retaining; parameter-only snapshots come back as
// plain quantities.
//
// Parameters:
//   - data: Bytes produced by Encode
//   - opts: Options forwarded to the restored quantity (seed, handler)
//
// Returns:
//   - *unc.Quantity: The restored quantity
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber,
//     ErrChecksumMismatch, or ErrInvalidPayload
func Decode(data []byte, opts ...unc.Option) (*unc.Quantity, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	payload := data[HeaderSize:]
	if sum := xxhash.Sum64(payload); sum != h.Checksum {
		return nil, fmt.Errorf("%w: checksum 0x%016X, header declares 0x%016X",
			errs.ErrChecksumMismatch, sum, h.Checksum)
	}

	var samples []float64
	if h.SampleCount > 0 {
		codec, err := compress.CreateCodec(h.Compression, "snapshot payload")
		if err != nil {
			return nil, err
		}

		raw, err := codec.Decompress(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrInvalidPayload, err)
		}
		if uint64(len(raw)) != h.SampleCount*8 {
			return nil, fmt.Errorf("%w: payload holds %d bytes, header declares %d samples",
				errs.ErrInvalidPayload, len(raw), h.SampleCount)
		}

		engine := h.Engine()
		samples = make([]float64, h.SampleCount)
		for i := range samples {
			samples[i] = math.Float64frombits(engine.Uint64(raw[i*8 : i*8+8]))
		}
	}

	return unc.Restore(h.Mean, h.SigmaLow, h.SigmaUp, [2]float64{h.Lower, h.Upper}, samples, opts...)
}
