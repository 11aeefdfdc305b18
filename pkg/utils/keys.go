package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashKey creates a SHA256 hash of a cache key so arbitrary input yields a
// fixed-length, Redis-safe key.
func HashKey(key string) string {
	h := sha256.New()
	h.Write([]byte(key))
	return hex.EncodeToString(h.Sum(nil))
}

// ExpandTemplate replaces {name} placeholders in tmpl with the given values.
func ExpandTemplate(tmpl string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
