package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainField is the domain-separation prefix for field content hashes.
// The version suffix allows a future algorithm migration without ambiguity.
const DomainField = "paperlib/field/v1"

// ContentHash computes the content hash for an opaque field value.
// Format: SHA256(domain + 0x00 + value), hex-encoded. The null separator
// keeps the domain/value boundary unambiguous.
//
// Producers compute this upstream and pass it through payloads; the engine
// only stores and returns it. The helper exists so local producers (CLI,
// tests) hash the same way remote ones do.
func ContentHash(value string) string {
	h := sha256.New()
	h.Write([]byte(DomainField))
	h.Write([]byte{0x00})
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}
