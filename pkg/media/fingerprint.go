package media

import (
	"encoding/binary"
	"hash/fnv"
	"strconv"
)

// fingerprintPrefixLen is how many leading bytes participate in the
// fingerprint.
const fingerprintPrefixLen = 4096

// Fingerprint derives a cache key from a blob's byte length plus a short
// prefix of its content (FNV-64a over both, hex encoded).
//
// This is a cheap identity heuristic, not a content hash: two blobs sharing
// byte length and first 4 KiB collide and are treated as identical. The
// false-positive risk is accepted to keep keying O(1) in blob size; callers
// that need collision safety under adversarial input must hash the full
// content themselves.
func Fingerprint(blob []byte) string {
	h := fnv.New64a()
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(blob)))
	h.Write(lenBuf[:])
	prefix := blob
	if len(prefix) > fingerprintPrefixLen {
		prefix = prefix[:fingerprintPrefixLen]
	}
	h.Write(prefix)
	return strconv.FormatUint(h.Sum64(), 16)
}
