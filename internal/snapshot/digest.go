package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
)

// digestDomain separates snapshot digests from any other sha256 use.
// The version suffix allows the rendering format to change.
const digestDomain = "pkgsnap/snapshot/v1"

// Digest returns the content address of rendered snapshot text:
// hex(SHA256(domain + 0x00 + text)).
func Digest(text string) string {
	h := sha256.New()
	h.Write([]byte(digestDomain))
	h.Write([]byte{0x00})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
