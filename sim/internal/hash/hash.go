// Package hash provides SHA256 digests over exact float64 bit patterns.
// Two runs produce the same digest only if every value matches bit-for-bit.
package hash

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// HashFloats computes a SHA256 hash of a float64 sequence.
// Each value contributes its 8-byte big-endian IEEE-754 encoding, so -0 and +0
// hash differently and NaN payloads are preserved.
func HashFloats(values []float64) string {
	h := sha256.New()
	var buf [8]byte
	for _, v := range values {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HashRows computes a SHA256 hash of fixed-width rows chained in order.
// Each row is hashed with HashFloats and folded into the previous digest,
// so reordering rows changes the result.
func HashRows(rows [][]float64) string {
	prev := ""
	for _, row := range rows {
		h := sha256.New()
		h.Write([]byte(prev))
		h.Write([]byte(HashFloats(row)))
		prev = hex.EncodeToString(h.Sum(nil))
	}
	if prev == "" {
		return HashFloats(nil)
	}
	return prev
}
