package container

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"wotreplay/internal/cipherstream"
	"wotreplay/internal/logging"
)

// Container is the top-level .wotreplay codec: outer header, JSON
// metadata blocks, inner magic, and the ChainedStream-encoded packet
// payload.
type Container struct {
	stream *cipherstream.ChainedStream
}

// New builds a Container over a fresh ChainedStream.
func New() *Container {
	return &Container{stream: cipherstream.NewChainedStream()}
}

// Decoded holds everything Container.Read extracts from a replay.
type Decoded struct {
	// JSONBlocks holds the raw (opaque) bytes of each metadata block,
	// in order. Their schema is never interpreted.
	JSONBlocks [][]byte
	// InnerMagic is the 4 opaque bytes following the JSON blocks.
	// Preserved verbatim for round-tripping.
	InnerMagic []byte
	// Payload is the decoded packet stream (ChainedStream output).
	Payload []byte
}

// Read parses a full replay container from r.
func (c *Container) Read(r io.Reader) (*Decoded, error) {
	blockCount, err := readOuterHeader(r)
	if err != nil {
		return nil, err
	}

	blocks := make([][]byte, 0, blockCount)
	for i := 0; i < blockCount; i++ {
		raw, err := readLengthPrefixedBytes(r)
		if err != nil {
			return nil, fmt.Errorf("read json block %d: %w", i, err)
		}
		if !json.Valid(raw) {
			return nil, fmt.Errorf("json block %d is not valid JSON", i)
		}
		blocks = append(blocks, raw)
	}

	innerMagic := make([]byte, 4)
	if _, err := io.ReadFull(r, innerMagic); err != nil {
		return nil, fmt.Errorf("read inner magic: %w", err)
	}
	if !bytes.Equal(innerMagic, DefaultInnerMagic) {
		logging.L().Warn("inner magic mismatch", logging.String("got", fmt.Sprintf("% x", innerMagic)), logging.String("want", fmt.Sprintf("% x", DefaultInnerMagic)))
	}

	payload, err := c.stream.Read(r)
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	return &Decoded{JSONBlocks: blocks, InnerMagic: innerMagic, Payload: payload}, nil
}

// Write serializes a replay container to w. If innerMagic is nil,
// DefaultInnerMagic is used.
func (c *Container) Write(w io.Writer, jsonBlocks [][]byte, innerMagic []byte, payload []byte) error {
	if len(jsonBlocks) != 1 && len(jsonBlocks) != 2 {
		return fmt.Errorf("json_block_count must be 1 or 2, got %d", len(jsonBlocks))
	}
	if err := writeOuterHeader(w, len(jsonBlocks)); err != nil {
		return fmt.Errorf("write outer header: %w", err)
	}

	for i, block := range jsonBlocks {
		var compact bytes.Buffer
		if err := json.Compact(&compact, block); err != nil {
			return fmt.Errorf("compact json block %d: %w", i, err)
		}
		if err := writeLengthPrefixedBytes(w, compact.Bytes()); err != nil {
			return fmt.Errorf("write json block %d: %w", i, err)
		}
	}

	magic := innerMagic
	if len(magic) == 0 {
		magic = DefaultInnerMagic
	}
	if len(magic) != 4 {
		return fmt.Errorf("inner magic must be 4 bytes, got %d", len(magic))
	}
	if _, err := w.Write(magic); err != nil {
		return fmt.Errorf("write inner magic: %w", err)
	}

	if err := c.stream.Write(w, payload); err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return nil
}
