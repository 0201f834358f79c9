// Package fingerprint derives content digests used to drop duplicate queue
// entries before merging. Digests are recomputed per run and never persisted.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"

	"docustream/pkg/queue"

	"go.uber.org/zap"
)

// Digest is the hex form of a SHA-256 hash over raw file content. Equal
// digests are treated as equal content; no collision handling is attempted.
type Digest string

// Fingerprint hashes content. The result depends only on the bytes, never on
// the filename or queue position.
func Fingerprint(content []byte) Digest {
	sum := sha256.Sum256(content)
	return Digest(hex.EncodeToString(sum[:]))
}

// Dedup returns the queue with exact-content duplicates removed, keeping the
// first occurrence of each digest, plus the names of the dropped entries in
// queue order.
func Dedup(files []queue.QueuedFile, logger *zap.Logger) ([]queue.QueuedFile, []string) {
	if logger == nil {
		logger = zap.NewNop()
	}

	seen := make(map[Digest]string, len(files))
	kept := make([]queue.QueuedFile, 0, len(files))
	var dropped []string

	for _, f := range files {
		d := Fingerprint(f.Content)
		if first, ok := seen[d]; ok {
			dropped = append(dropped, f.Name)
			logger.Debug("Dropping duplicate file",
				zap.String("file", f.Name),
				zap.String("duplicateOf", first))
			continue
		}
		seen[d] = f.Name
		kept = append(kept, f)
	}
	return kept, dropped
}
