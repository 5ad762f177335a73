package tagger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jdkato/prose/v2"

	"github.com/matzehuels/procdeck/pkg/observability"
)

// Prose tags text with the averaged-perceptron model bundled in prose/v2.
// The model is decoded on the first non-blank cell and shared by every
// later call. The zero value is ready to use.
type Prose struct {
	once  sync.Once
	model *prose.Model
	err   error
	loads atomic.Int32
}

// NewProse returns a prose-backed tagger.
func NewProse() *Prose { return &Prose{} }

// Name implements Named.
func (*Prose) Name() string { return "prose/v2" }

// Tag tokenizes and tags text. Segmentation and entity extraction are
// disabled; a cell is treated as one sentence.
func (p *Prose) Tag(ctx context.Context, text string) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return []Token{}, nil
	}
	start := time.Now()

	model, err := p.loadModel()
	if err != nil {
		observability.Tagger().OnTag(ctx, p.Name(), 0, false, time.Since(start), err)
		return nil, fmt.Errorf("prose: load model: %w", err)
	}
	doc, err := prose.NewDocument(text, append(proseOpts, prose.UsingModel(model))...)
	if err != nil {
		observability.Tagger().OnTag(ctx, p.Name(), 0, false, time.Since(start), err)
		return nil, fmt.Errorf("prose: %w", err)
	}

	src := doc.Tokens()
	tokens := make([]Token, 0, len(src))
	for _, tok := range src {
		tokens = append(tokens, Token{
			Text: tok.Text,
			Tag:  tok.Tag,
			POS:  FromPenn(tok.Tag, tok.Text),
		})
	}
	observability.Tagger().OnTag(ctx, p.Name(), len(tokens), false, time.Since(start), nil)
	return tokens, nil
}

var proseOpts = []prose.DocOpt{
	prose.WithSegmentation(false),
	prose.WithExtraction(false),
}

// loadModel decodes the tagging model once by tagging a throwaway document.
func (p *Prose) loadModel() (*prose.Model, error) {
	p.once.Do(func() {
		p.loads.Add(1)
		doc, err := prose.NewDocument("Load the model", proseOpts...)
		if err != nil {
			p.err = err
			return
		}
		p.model = doc.Model
	})
	return p.model, p.err
}

// auxiliaries are verb forms that act as auxiliaries or copulas.
var auxiliaries = map[string]bool{
	"be": true, "am": true, "is": true, "are": true, "was": true, "were": true,
	"been": true, "being": true, "'s": true, "'re": true, "'m": true,
	"have": true, "has": true, "had": true, "having": true, "'ve": true, "'d": true,
	"do": true, "does": true, "did": true,
}

// FromPenn maps a Penn Treebank tag to a universal category. The token text
// separates auxiliaries from main verbs, which Penn tags alike.
func FromPenn(tag, text string) POS {
	switch {
	case strings.HasPrefix(tag, "VB"):
		if auxiliaries[strings.ToLower(text)] {
			return AUX
		}
		return Verb
	case tag == "MD":
		return AUX
	case tag == "NNP" || tag == "NNPS":
		return Propn
	case strings.HasPrefix(tag, "NN"):
		return Noun
	case strings.HasPrefix(tag, "JJ"):
		return Adj
	case strings.HasPrefix(tag, "RB") || tag == "WRB":
		return Adv
	case strings.HasPrefix(tag, "PRP") || tag == "WP" || tag == "WP$":
		return Pron
	case tag == "DT" || tag == "PDT" || tag == "WDT":
		return Det
	case tag == "IN":
		return Adp
	case tag == "CC":
		return Conj
	case tag == "CD":
		return Num
	case tag == "TO" || tag == "RP" || tag == "POS":
		return Part
	case tag == "-LRB-" || tag == "-RRB-" || tag == "SYM":
		return Punct
	case tag != "" && strings.Trim(tag, ".,:\"'`$#") == "":
		return Punct
	default:
		return Other
	}
}
