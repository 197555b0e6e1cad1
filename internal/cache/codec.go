package cache

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// codec compresses cache values. EncodeAll and DecodeAll are safe for
// concurrent use, so one codec serves the whole cache.
type codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newCodec() (*codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &codec{enc: enc, dec: dec}, nil
}

func (c *codec) encode(value []byte) []byte {
	return c.enc.EncodeAll(value, make([]byte, 0, len(value)/2+16))
}

func (c *codec) decode(stored []byte) ([]byte, error) {
	if len(stored) == 0 {
		return []byte{}, nil
	}
	value, err := c.dec.DecodeAll(stored, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress cache value: %w", err)
	}
	return value, nil
}

// Close releases the encoder and decoder
func (c *codec) Close() {
	_ = c.enc.Close()
	c.dec.Close()
}
