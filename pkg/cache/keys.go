package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Keyer builds cache keys. Implementations must be deterministic.
type Keyer interface {
	// TagKey returns the key for the tokens of text produced by the named tagger.
	TagKey(tagger, text string) string
}

// DefaultKeyer produces unscoped keys of the form "tag:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TagKey hashes the tagger name together with the text so that switching
// tagger backends never serves stale tokens.
func (DefaultKeyer) TagKey(tagger, text string) string {
	return "tag:" + Hash([]byte(tagger+"\x00"+text))
}

// ScopedKeyer wraps a Keyer with a prefix, so that several deployments can
// share one redis instance without seeing each other's entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer prepends prefix to every key of inner, or of the default
// keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) TagKey(tagger, text string) string {
	var b strings.Builder
	b.WriteString(k.prefix)
	b.WriteString(k.inner.TagKey(tagger, text))
	return b.String()
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
