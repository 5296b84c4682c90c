// Package cipherstream implements the encrypted/compressed payload
// codec: a 4-byte length prefix, whole 8-byte Blowfish blocks chained
// with a custom XOR-on-plaintext mode, wrapping a zlib stream.
package cipherstream

import (
	"fmt"

	"golang.org/x/crypto/blowfish"
)

// blockSize is the Blowfish block size in bytes; also the chunk size
// the chained-XOR mode operates on.
const blockSize = 8

// FixedKey is the cipher key used for every .wotreplay container.
var FixedKey = []byte{
	0xDE, 0x72, 0xBE, 0xA0, 0xDE, 0x04, 0xBE, 0xB1,
	0xDE, 0xFE, 0xBE, 0xEF, 0xDE, 0xAD, 0xBE, 0xEF,
}

// BlockCipher is an 8-byte Blowfish block encrypt/decrypt primitive
// built once per process with a fixed key. It carries no chaining
// state itself — ChainedStream owns that.
type BlockCipher struct {
	cipher *blowfish.Cipher
}

// NewBlockCipher constructs a BlockCipher bound to the fixed replay
// key.
func NewBlockCipher() *BlockCipher {
	c, err := blowfish.NewCipher(FixedKey)
	if err != nil {
		// FixedKey is a compile-time constant of valid length;
		// blowfish.NewCipher only fails on bad key sizes.
		panic(fmt.Sprintf("cipherstream: invalid fixed key: %v", err))
	}
	return &BlockCipher{cipher: c}
}

// Encrypt encrypts exactly one 8-byte block.
func (b *BlockCipher) Encrypt(block []byte) []byte {
	if len(block) != blockSize {
		panic("cipherstream: block must be 8 bytes")
	}
	out := make([]byte, blockSize)
	b.cipher.Encrypt(out, block)
	return out
}

// Decrypt decrypts exactly one 8-byte block.
func (b *BlockCipher) Decrypt(block []byte) []byte {
	if len(block) != blockSize {
		panic("cipherstream: block must be 8 bytes")
	}
	out := make([]byte, blockSize)
	b.cipher.Decrypt(out, block)
	return out
}
