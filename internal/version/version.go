// Package version derives stable content fingerprints for pipeline
// components. A fingerprint covers a component's identity plus the byte
// content of whatever artifacts it was initialized from, so it changes if
// and only if an input artifact or the component revision changes. The
// serving layer consumes these as cache keys, which makes stability across
// process restarts a hard requirement.
package version

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

// Versioned is implemented by every pipeline component that participates in
// cache keying.
type Versioned interface {
	// VersionHash returns a stable content-derived fingerprint.
	VersionHash() string
}

// Hash fingerprints a component from its identity string and the raw bytes
// of its input artifacts.
func Hash(component string, data []byte) string {
	h := blake3.New()
	_, _ = h.Write([]byte(component))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Combine fingerprints a composite component from its children's
// fingerprints. Children must be passed in construction order so the result
// is deterministic.
func Combine(component string, children ...string) string {
	return Hash(component, []byte(strings.Join(children, "-")))
}
