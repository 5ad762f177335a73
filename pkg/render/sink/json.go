package sink

import (
	"encoding/json"

	"github.com/matzehuels/procdeck/pkg/diagram"
)

type jsonOutput struct {
	Pages []jsonPage `json:"pages"`
}

type jsonPage struct {
	Number int `json:"number"`
	diagram.Page
}

// RenderJSON exports the pages as a pretty-printed JSON document. Shapes
// keep their layout order, so the output is stable for identical input.
func RenderJSON(pages []diagram.Page) ([]byte, error) {
	out := jsonOutput{Pages: make([]jsonPage, len(pages))}
	for i, p := range pages {
		out.Pages[i] = jsonPage{Number: i + 1, Page: p}
	}
	return json.MarshalIndent(out, "", "  ")
}

// ReadJSON parses a document written by [RenderJSON].
func ReadJSON(data []byte) ([]diagram.Page, error) {
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	pages := make([]diagram.Page, len(out.Pages))
	for i, p := range out.Pages {
		pages[i] = p.Page
	}
	return pages, nil
}
