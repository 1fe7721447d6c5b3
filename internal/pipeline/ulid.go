package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job IDs are ULIDs: 26-character Crockford Base32 strings with a
// millisecond timestamp prefix, so IDs sort by creation time.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

func generateULID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	// Timestamp in the first 6 bytes (big-endian 48-bit).
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	// Random in the remaining 10 bytes, with the sequence counter embedded
	// in bytes 6-7 for uniqueness within the same millisecond.
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeULID(b)
}

// encodeULID renders 128 bits as 26 Crockford Base32 characters. The first
// character carries only the top 3 bits, matching the ULID layout.
func encodeULID(b [16]byte) string {
	var out [26]byte
	var acc uint64
	accBits, idx, pos := 0, 0, 0

	emit := func(nbits int) {
		for accBits < nbits && idx < len(b) {
			acc = acc<<8 | uint64(b[idx])
			accBits += 8
			idx++
		}
		shift := accBits - nbits
		out[pos] = crockford[(acc>>shift)&(1<<nbits-1)]
		acc &= 1<<shift - 1
		accBits = shift
		pos++
	}

	emit(3)
	for pos < len(out) {
		emit(5)
	}
	return string(out[:])
}
