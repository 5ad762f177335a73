package diagram

import (
	"context"
	"strings"

	errs "github.com/matzehuels/procdeck/pkg/errors"
	"github.com/matzehuels/procdeck/pkg/tagger"
)

// TextAnnotator extracts action verbs from cell text.
type TextAnnotator struct {
	tagger tagger.Tagger
}

// NewTextAnnotator returns an annotator backed by t.
func NewTextAnnotator(t tagger.Tagger) *TextAnnotator {
	return &TextAnnotator{tagger: t}
}

// Verbs returns the verb tokens of text in order, duplicates and surface
// form kept. Blank text yields no verbs and is not sent to the tagger.
func (a *TextAnnotator) Verbs(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}
	tokens, err := a.tagger.Tag(ctx, text)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeTaggerFailure, err, "tag %q", clip(text, 40))
	}
	verbs := []string{}
	for _, tok := range tokens {
		if tok.IsVerb() {
			verbs = append(verbs, tok.Text)
		}
	}
	return verbs, nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
