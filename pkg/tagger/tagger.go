package tagger

import "context"

// POS is a universal part-of-speech category.
type POS string

// Universal categories. Only the subset the Penn mapping produces is listed.
const (
	Verb  POS = "VERB"
	AUX   POS = "AUX"
	Noun  POS = "NOUN"
	Propn POS = "PROPN"
	Adj   POS = "ADJ"
	Adv   POS = "ADV"
	Pron  POS = "PRON"
	Det   POS = "DET"
	Adp   POS = "ADP"
	Conj  POS = "CCONJ"
	Num   POS = "NUM"
	Part  POS = "PART"
	Punct POS = "PUNCT"
	Other POS = "X"
)

// Token is a single tagged token.
type Token struct {
	Text string `json:"text"`          // surface form as it appears in the input
	Tag  string `json:"tag,omitempty"` // backend-specific tag (e.g. Penn "VBZ")
	POS  POS    `json:"pos"`
}

// IsVerb reports whether the token is a main verb. Auxiliaries are excluded.
func (t Token) IsVerb() bool { return t.POS == Verb }

// Tagger tokenizes and tags text. Tokens are returned in text order.
type Tagger interface {
	Tag(ctx context.Context, text string) ([]Token, error)
}

// Named is implemented by taggers that expose a stable backend name.
// The name is part of cache keys.
type Named interface {
	Name() string
}

// Func adapts a function to the Tagger interface.
type Func func(ctx context.Context, text string) ([]Token, error)

// Tag calls f.
func (f Func) Tag(ctx context.Context, text string) ([]Token, error) { return f(ctx, text) }

// nameOf returns the backend name of t, or "custom".
func nameOf(t Tagger) string {
	if n, ok := t.(Named); ok {
		return n.Name()
	}
	return "custom"
}
