// Package container implements the outer .wotreplay container format:
// an 8-byte header, 1-2 length-prefixed JSON blocks, a 4-byte inner
// magic, and the ChainedStream-encoded packet payload.
package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"wotreplay/internal/logging"
	"wotreplay/internal/werrors"
)

// headerPrefix and headerSuffix are the constant bytes flanking the
// json-block-count byte in the 8-byte outer header.
var (
	headerPrefix = []byte{0x12, 0x32, 0x34, 0x11}
	headerSuffix = []byte{0x00, 0x00, 0x00}
)

// DefaultInnerMagic is the observed 4-byte inner magic written when
// the caller supplies none.
var DefaultInnerMagic = []byte{0xAA, 0xC6, 0x31, 0x00}

// readOuterHeader reads the 8-byte outer header and returns the
// declared JSON block count, clamped to the [1,2] range tooling
// actually supports. Constant-byte mismatches and an out-of-range
// count are warnings, never fatal — a declared count of 3, for
// instance, still yields two JSON blocks rather than aborting.
func readOuterHeader(r io.Reader) (blockCount int, err error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read outer header: %w: %w", err, werrors.ErrMalformedHeader)
	}

	if !bytes.Equal(buf[0:4], headerPrefix) {
		logging.L().Warn("outer header prefix mismatch", logging.String("got", fmt.Sprintf("% x", buf[0:4])), logging.String("want", fmt.Sprintf("% x", headerPrefix)))
	}
	if !bytes.Equal(buf[5:8], headerSuffix) {
		logging.L().Warn("outer header suffix mismatch", logging.String("got", fmt.Sprintf("% x", buf[5:8])), logging.String("want", fmt.Sprintf("% x", headerSuffix)))
	}

	declared := int(buf[4])
	blockCount = declared
	if blockCount < 1 {
		logging.L().Warn("outer header json_block_count below 1, clamping", logging.Int("declared", declared))
		blockCount = 1
	} else if blockCount > 2 {
		logging.L().Warn("outer header json_block_count above 2, clamping", logging.Int("declared", declared))
		blockCount = 2
	}
	return blockCount, nil
}

// writeOuterHeader writes the 8-byte outer header with the given
// JSON block count.
func writeOuterHeader(w io.Writer, blockCount int) error {
	var buf [8]byte
	copy(buf[0:4], headerPrefix)
	buf[4] = byte(blockCount)
	copy(buf[5:8], headerSuffix)
	_, err := w.Write(buf[:])
	return err
}

// readLengthPrefixedBytes reads a 4-byte little-endian length prefix
// followed by that many bytes.
func readLengthPrefixedBytes(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("read length prefix: %w", err)
	}
	length := binary.LittleEndian.Uint32(lenBuf[:])
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("read %d-byte block: %w", length, err)
	}
	return data, nil
}

// writeLengthPrefixedBytes writes data preceded by its 4-byte
// little-endian length.
func writeLengthPrefixedBytes(w io.Writer, data []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}
