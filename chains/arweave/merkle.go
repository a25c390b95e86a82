package arweave

import (
	"crypto/sha256"
	"math/big"
)

const (
	maxChunkSize = 256 * 1024
	minChunkSize = 32 * 1024
	noteSize     = 32
)

type merkleNode struct {
	id           []byte
	maxByteRange int
}

func sha256Of(parts ...[]byte) []byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

func note(n int) []byte {
	buf := make([]byte, noteSize)
	return new(big.Int).SetInt64(int64(n)).FillBytes(buf)
}

// chunkBoundaries splits size bytes into chunks no larger than
// maxChunkSize, keeping the last two balanced when the tail would fall
// under minChunkSize
func chunkBoundaries(size int) [][2]int {
	var chunks [][2]int
	cursor := 0
	rest := size

	for rest >= maxChunkSize {
		chunkSize := maxChunkSize
		next := rest - maxChunkSize
		if next > 0 && next < minChunkSize {
			chunkSize = (rest + 1) / 2
		}
		chunks = append(chunks, [2]int{cursor, cursor + chunkSize})
		cursor += chunkSize
		rest -= chunkSize
	}
	chunks = append(chunks, [2]int{cursor, cursor + rest})
	return chunks
}

// DataRoot returns the merkle root over data chunks used as data_root in
// v2 transactions
func DataRoot(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}

	var nodes []merkleNode
	for _, c := range chunkBoundaries(len(data)) {
		dataHash := sha256Of(data[c[0]:c[1]])
		nodes = append(nodes, merkleNode{
			id:           sha256Of(sha256Of(dataHash), sha256Of(note(c[1]))),
			maxByteRange: c[1],
		})
	}

	for len(nodes) > 1 {
		var next []merkleNode
		for i := 0; i < len(nodes); i += 2 {
			if i+1 == len(nodes) {
				next = append(next, nodes[i])
				continue
			}
			left, right := nodes[i], nodes[i+1]
			next = append(next, merkleNode{
				id: sha256Of(
					sha256Of(left.id), sha256Of(right.id), sha256Of(note(left.maxByteRange)),
				),
				maxByteRange: right.maxByteRange,
			})
		}
		nodes = next
	}
	return nodes[0].id
}
