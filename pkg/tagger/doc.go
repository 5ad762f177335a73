// Package tagger provides part-of-speech tagging for cell text.
//
// The diagram engine only needs to know which tokens of a cell are verbs.
// [Tagger] abstracts the linguistic backend behind a single call that
// returns tokens in text order, each carrying a universal part-of-speech
// category ([POS]).
//
// # Backends
//
//   - [Prose]: statistical tagger from github.com/jdkato/prose/v2. Penn
//     Treebank tags are mapped to universal categories, with forms of
//     "be", "have" and "do" reported as [AUX] rather than [Verb].
//   - [Cached]: decorator storing another tagger's output in a
//     [cache.Cache], keyed by the text hash.
//   - [Func]: adapter turning a plain function into a Tagger.
//
// # Usage
//
//	t := tagger.NewCached(tagger.NewProse(), c, nil)
//	tokens, err := t.Tag(ctx, "Manager approves the request")
//	for _, tok := range tokens {
//	    if tok.IsVerb() {
//	        fmt.Println(tok.Text)
//	    }
//	}
//
// [cache.Cache]: github.com/matzehuels/procdeck/pkg/cache.Cache
package tagger
