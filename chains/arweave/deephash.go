package arweave

import (
	"crypto/sha512"
	"strconv"
)

// Chunk is a node of the structure signed by v2 transactions
type Chunk interface {
	deepHash() []byte
}

// Blob is a leaf chunk
type Blob []byte

// List is an ordered collection of chunks
type List []Chunk

func sha384(parts ...[]byte) []byte {
	h := sha512.New384()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

func (b Blob) deepHash() []byte {
	tag := []byte("blob" + strconv.Itoa(len(b)))
	return sha384(sha384(tag), sha384(b))
}

func (l List) deepHash() []byte {
	acc := sha384([]byte("list" + strconv.Itoa(len(l))))
	for _, c := range l {
		acc = sha384(acc, c.deepHash())
	}
	return acc
}

// DeepHash returns the 48-byte SHA-384 deep hash of c
func DeepHash(c Chunk) []byte {
	return c.deepHash()
}
