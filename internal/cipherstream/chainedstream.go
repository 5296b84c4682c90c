package cipherstream

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"wotreplay/internal/werrors"
)

// ChainedStream codes the payload region of a replay container: a
// declared-length prefix, a whole number of Blowfish blocks XOR-chained
// on *plaintext* (not ciphertext — this is not CBC), wrapping a zlib
// stream.
//
// The chaining asymmetry here is load-bearing: the decoder's chain
// variable holds the post-XOR plaintext, while the encoder's chain
// variable holds the pre-XOR plaintext. Both are the same bytes by
// construction, but getting the bookkeeping backwards (chaining on
// ciphertext, i.e. real CBC) breaks round-tripping.
type ChainedStream struct {
	cipher *BlockCipher
}

// NewChainedStream builds a ChainedStream over a fresh BlockCipher.
func NewChainedStream() *ChainedStream {
	return &ChainedStream{cipher: NewBlockCipher()}
}

var zeroBlock = make([]byte, blockSize)

// Read decodes the payload region from r, returning the decompressed
// packet-stream bytes.
func (cs *ChainedStream) Read(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("read declared length: %w", err)
	}
	declared := int32(binary.LittleEndian.Uint32(lenBuf[:]))

	var decrypted bytes.Buffer
	prev := zeroBlock
	var block [blockSize]byte
	for {
		n, err := io.ReadFull(r, block[:])
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF || (err == nil && n != blockSize) {
			return nil, fmt.Errorf("ciphertext length not a multiple of %d: %w", blockSize, werrors.ErrMalformedPayload)
		}
		if err != nil {
			return nil, fmt.Errorf("read ciphertext block: %w", err)
		}
		plain := cs.cipher.Decrypt(block[:])
		chained := xorBlocks(plain, prev)
		prev = chained
		decrypted.Write(chained)
	}

	if declared < 0 || int(declared) > decrypted.Len() {
		return nil, fmt.Errorf("declared length %d exceeds decrypted buffer %d: %w", declared, decrypted.Len(), werrors.ErrLengthMismatch)
	}
	compressed := decrypted.Bytes()[:declared]

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("zlib init: %w: %w", err, werrors.ErrCorrupt)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("zlib decompress: %w: %w", err, werrors.ErrCorrupt)
	}
	return out, nil
}

// Write encodes payload into w: zlib-compress, length-prefix, pad to a
// block multiple, then Blowfish-encrypt with the chained XOR mode.
func (cs *ChainedStream) Write(w io.Writer, payload []byte) error {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(payload); err != nil {
		zw.Close()
		return fmt.Errorf("zlib compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("zlib compress: %w", err)
	}

	body := compressed.Bytes()
	declared := len(body)

	if rem := len(body) % blockSize; rem != 0 {
		body = append(body, make([]byte, blockSize-rem)...)
	}

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(int32(declared)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("write declared length: %w", err)
	}

	prev := zeroBlock
	for off := 0; off < len(body); off += blockSize {
		u := body[off : off+blockSize]
		ciphertext := cs.cipher.Encrypt(xorBlocks(u, prev))
		// Chain on the unchained plaintext block, matching the
		// decoder's post-XOR value — not the ciphertext.
		prev = u
		if _, err := w.Write(ciphertext); err != nil {
			return fmt.Errorf("write ciphertext block: %w", err)
		}
	}
	return nil
}

func xorBlocks(a, b []byte) []byte {
	out := make([]byte, blockSize)
	for i := 0; i < blockSize; i++ {
		out[i] = a[i] ^ b[i]
	}
	return out
}
