package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainConfig prefixes config digests. The version suffix changes whenever
// the canonical form does.
const DomainConfig = "mixer/config/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Config returns the digest of a finished config.
func Config(cfg map[string]any) (string, error) {
	canonical, err := Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("digest config: %w", err)
	}
	return hashWithDomain(DomainConfig, canonical), nil
}

// Short returns the first 12 characters of a digest.
func Short(d string) string {
	if len(d) <= 12 {
		return d
	}
	return d[:12]
}
