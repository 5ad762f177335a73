package diagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/procdeck/pkg/errors"
	"github.com/matzehuels/procdeck/pkg/table"
	"github.com/matzehuels/procdeck/pkg/tagger"
)

// wordTagger tags every whitespace-separated word, marking the words in
// verbs as VERB and everything else as NOUN.
func wordTagger(verbs ...string) tagger.Func {
	set := make(map[string]bool, len(verbs))
	for _, v := range verbs {
		set[v] = true
	}
	return func(_ context.Context, text string) ([]tagger.Token, error) {
		var out []tagger.Token
		for _, w := range strings.Fields(text) {
			pos := tagger.Noun
			if set[w] {
				pos = tagger.Verb
			}
			out = append(out, tagger.Token{Text: w, POS: pos})
		}
		return out, nil
	}
}

func newTestBuilder(t tagger.Tagger) *Builder {
	return NewBuilder(NewMetrics(PointsPerInch), NewTextAnnotator(t))
}

var squareCanvas = Canvas{Width: 700, Height: 700}

func TestPolicyAEndToEnd(t *testing.T) {
	tbl := table.Table{
		{"Start", "Actor", "Action", "Note", "Outcome", "End"},
		{"Receive invoice", "Clerk", "Checks totals", "(optional)", "Approves payment", "Archive record"},
	}
	b := newTestBuilder(wordTagger("Receive", "Checks", "Approves", "Archive", "optional"))

	d, err := b.Build(context.Background(), PolicyA, tbl, squareCanvas)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	m := b.Metrics()
	at := func(k float64) Rect {
		return Rect{Left: 100 * k, Top: 100 * k, Width: m.NodeWidth, Height: m.NodeHeight}
	}
	want := []Shape{
		{Kind: RoundedRectangle, Rect: at(0), Fill: White, Label: "Receive invoice", FontSize: 18},
		{Kind: Oval, Rect: at(1), Fill: Attention, Label: "Receive", FontSize: 18},
		{Kind: Oval, Rect: at(2), Fill: Positive, Label: "Clerk", FontSize: 18},
		{Kind: Oval, Rect: at(3), Fill: Attention, Label: "Checks totals", FontSize: 18},
		{Kind: Oval, Rect: at(4), Fill: Positive, Label: "Approves payment", FontSize: 18},
		{Kind: Oval, Rect: at(5), Fill: Attention, Label: "Archive", FontSize: 18},
		{Kind: RoundedRectangle, Rect: at(6), Fill: White, Label: "Archive record", FontSize: 18},
	}
	if diff := cmp.Diff(want, d.Shapes); diff != "" {
		t.Errorf("shapes mismatch (-want +got):\n%s", diff)
	}

	var labels []string
	for _, a := range d.Annotations {
		labels = append(labels, a.Label)
	}
	wantVerbs := []string{"Receive", "Checks", "Approves", "Archive"}
	if diff := cmp.Diff(wantVerbs, labels); diff != "" {
		t.Errorf("annotation labels (-want +got):\n%s", diff)
	}
	if d.Policy != "A" || d.Title != "Core Process Statement" {
		t.Errorf("diagram = %s %q", d.Policy, d.Title)
	}
}

func TestDiagonalSlotsDoNotOverlap(t *testing.T) {
	row := []string{"a b", "c", "d", "e", "f", "g h"}
	shapes, err := newTestBuilder(wordTagger()).Shapes(PolicyA, table.Table{row, row}, squareCanvas)
	if err != nil {
		t.Fatal(err)
	}
	if len(shapes) != DiagonalSlots {
		t.Fatalf("got %d shapes, want %d", len(shapes), DiagonalSlots)
	}
	for k, s := range shapes {
		wantLeft := float64(k) * squareCanvas.Width / DiagonalSlots
		wantTop := float64(k) * squareCanvas.Height / DiagonalSlots
		if s.Rect.Left != wantLeft || s.Rect.Top != wantTop {
			t.Errorf("shape %d at (%v, %v), want (%v, %v)", k, s.Rect.Left, s.Rect.Top, wantLeft, wantTop)
		}
		if s.Label == "e" {
			t.Error("column 3 produced a shape")
		}
	}
}

func TestDiagonalSlotsAreFixedPerColumn(t *testing.T) {
	tbl := table.Table{{}, {"", "", "", "", "Outcome", ""}}
	shapes, err := newTestBuilder(wordTagger()).Shapes(PolicyA, tbl, squareCanvas)
	if err != nil {
		t.Fatal(err)
	}
	if len(shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(shapes))
	}
	if got := shapes[0].Rect.Left; got != 400 {
		t.Errorf("column 4 at left %v, want slot 4 (400)", got)
	}
}

func TestSkippedCells(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		table  table.Table
		want   []string
	}{
		{
			name:   "B skips columns 0, 3 and 5",
			policy: PolicyB,
			table:  table.Table{{}, {}, {"c0", "c1", "c2", "c3", "c4", "c5"}},
			want:   []string{"c1", "c2", "c4"},
		},
		{
			name:   "C skips columns 0, 1 and 5",
			policy: PolicyC,
			table:  table.Table{{}, {"c0", "c1", "c2", "c3", "c4", "c5"}},
			want:   []string{"c2", "c3", "c4"},
		},
		{
			name:   "D skips columns 0, 2 and 3",
			policy: PolicyD,
			table:  table.Table{{}, {"c0", "c1", "c2", "c3", "c4", "c5"}},
			want:   []string{"c1", "c4", "c5"},
		},
		{
			name:   "empty, blank and parenthesized cells",
			policy: PolicyC,
			table:  table.Table{{}, {"", "", "  ", "(see note)", "ok", ""}},
			want:   []string{"ok"},
		},
		{
			name:   "columns beyond the role table",
			policy: PolicyD,
			table:  table.Table{{}, {"", "x", "", "", "", "", "c6", "c7"}},
			want:   []string{"x"},
		},
		{
			name:   "ragged rows",
			policy: PolicyC,
			table:  table.Table{{}, {"a", "b", "c"}, {"d"}, {"e", "f", "g", "h", "i"}},
			want:   []string{"c", "g", "h", "i"},
		},
		{
			name:   "A label skipped when parenthesized",
			policy: PolicyA,
			table:  table.Table{{}, {"(start)", "x", "", "", "", ""}},
			want:   []string{"x"},
		},
	}

	b := newTestBuilder(wordTagger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shapes, err := b.Shapes(tt.policy, tt.table, DefaultCanvas())
			if err != nil {
				t.Fatalf("Shapes: %v", err)
			}
			got := []string{}
			for _, s := range shapes {
				got = append(got, s.Label)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("labels (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGridColors(t *testing.T) {
	tbl := table.Table{{}, {"", "d1", "", "", "d4", "d5"}}
	shapes, err := newTestBuilder(wordTagger()).Shapes(PolicyD, tbl, DefaultCanvas())
	if err != nil {
		t.Fatal(err)
	}
	want := []Color{Positive, Attention, Attention}
	for i, s := range shapes {
		if s.Fill != want[i] || s.Kind != Oval {
			t.Errorf("shape %d = %s %s, want oval %s", i, s.Kind, s.Fill, want[i])
		}
	}
}

func TestGridWraps(t *testing.T) {
	// 14 drawable cells over 7 rows: four nodes fit per line at 72 units/in.
	var tbl table.Table
	tbl = append(tbl, []string{"header"})
	for i := 0; i < 7; i++ {
		tbl = append(tbl, []string{"", "", fmt.Sprintf("p%d", i), "", fmt.Sprintf("q%d", i), ""})
	}

	b := newTestBuilder(wordTagger())
	m := b.Metrics()
	shapes, err := b.Shapes(PolicyC, tbl, DefaultCanvas())
	if err != nil {
		t.Fatal(err)
	}
	if len(shapes) != 14 {
		t.Fatalf("got %d shapes, want 14", len(shapes))
	}

	wraps := 0
	for i, s := range shapes {
		if s.Rect.Right() > m.RightBoundary {
			t.Errorf("shape %d right edge %v beyond boundary %v", i, s.Rect.Right(), m.RightBoundary)
		}
		if i == 0 {
			if s.Rect.Left != m.LeftMargin || s.Rect.Top != m.TopMargin {
				t.Errorf("first shape at (%v, %v), want margins", s.Rect.Left, s.Rect.Top)
			}
			continue
		}
		prev := shapes[i-1].Rect
		switch {
		case s.Rect.Top == prev.Top:
			if s.Rect.Left != prev.Left+m.NodeWidth {
				t.Errorf("shape %d left %v, want %v", i, s.Rect.Left, prev.Left+m.NodeWidth)
			}
		default:
			wraps++
			if s.Rect.Left != m.LeftMargin {
				t.Errorf("wrapped shape %d left %v, want margin", i, s.Rect.Left)
			}
			if s.Rect.Top != prev.Top+m.NodeHeight {
				t.Errorf("wrapped shape %d top %v, want %v", i, s.Rect.Top, prev.Top+m.NodeHeight)
			}
		}
	}
	if wraps < 3 {
		t.Errorf("got %d wraps, want at least 3", wraps)
	}
}

func TestGridCursorSharedAcrossRows(t *testing.T) {
	tbl := table.Table{{}, {"", "", "a", "", "", ""}, {"", "", "b", "", "", ""}}
	shapes, err := newTestBuilder(wordTagger()).Shapes(PolicyC, tbl, DefaultCanvas())
	if err != nil {
		t.Fatal(err)
	}
	if shapes[1].Rect.Top != shapes[0].Rect.Top || shapes[1].Rect.Left <= shapes[0].Rect.Left {
		t.Errorf("second row should continue on the cursor line: %+v", shapes)
	}
}

func TestAnnotationGroups(t *testing.T) {
	for _, n := range []int{0, 1, 4, 5, 6, 10, 12} {
		t.Run(fmt.Sprintf("%d verbs", n), func(t *testing.T) {
			words := make([]string, n)
			for i := range words {
				words[i] = fmt.Sprintf("v%d", i)
			}
			tbl := table.Table{{}, {strings.Join(words, " ")}}
			b := newTestBuilder(wordTagger(words...))
			m := b.Metrics()
			c := DefaultCanvas()

			boxes, err := b.Annotations(context.Background(), PolicyC, tbl, c)
			if err != nil {
				t.Fatal(err)
			}
			if len(boxes) != n {
				t.Fatalf("got %d boxes, want %d", len(boxes), n)
			}

			tops := map[float64]int{}
			for i, box := range boxes {
				group, pos := i/AnnotationGroup, i%AnnotationGroup
				wantTop := c.Height - m.BottomMargin - float64(group)*m.BoxHeight
				wantLeft := m.LeftMargin + float64(pos)*m.BoxWidth
				if box.Rect.Top != wantTop || box.Rect.Left != wantLeft {
					t.Errorf("box %d at (%v, %v), want (%v, %v)", i, box.Rect.Left, box.Rect.Top, wantLeft, wantTop)
				}
				if box.Label != words[i] {
					t.Errorf("box %d label %q, want %q", i, box.Label, words[i])
				}
				tops[box.Rect.Top]++
			}

			wantGroups := int(math.Ceil(float64(n) / AnnotationGroup))
			if len(tops) != wantGroups {
				t.Errorf("got %d groups, want %d", len(tops), wantGroups)
			}
			if n > 0 {
				last := c.Height - m.BottomMargin - float64(wantGroups-1)*m.BoxHeight
				wantLast := n % AnnotationGroup
				if wantLast == 0 {
					wantLast = AnnotationGroup
				}
				if tops[last] != wantLast {
					t.Errorf("last group has %d boxes, want %d", tops[last], wantLast)
				}
			}
		})
	}
}

func TestVerbColumns(t *testing.T) {
	row := []string{"open", "file", "sign", "skipme", "send", "close"}
	tbl := table.Table{row, row, row}
	b := newTestBuilder(wordTagger(row...))
	ctx := context.Background()

	tests := []struct {
		policy Policy
		want   []string
	}{
		{PolicyA, []string{"open", "file", "sign", "send", "close"}},
		{PolicyB, row},
		{PolicyC, append(append([]string{}, row...), row...)},
	}
	for _, tt := range tests {
		t.Run(tt.policy.ID, func(t *testing.T) {
			got, err := b.Verbs(ctx, tt.policy, tbl)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("verbs (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMalformedTable(t *testing.T) {
	b := newTestBuilder(wordTagger())
	tests := []struct {
		name   string
		policy Policy
		table  table.Table
	}{
		{"A without row 1", PolicyA, table.Table{{"header"}}},
		{"B with two rows", PolicyB, table.Table{{"h"}, {"x"}}},
		{"C empty", PolicyC, table.Table{}},
		{"D header only", PolicyD, table.Table{{"h"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(context.Background(), tt.policy, tt.table, DefaultCanvas())
			if !errs.Is(err, errs.ErrCodeMalformedTable) {
				t.Errorf("Build error = %v, want MALFORMED_TABLE", err)
			}
		})
	}
}

func TestInvalidCanvas(t *testing.T) {
	b := newTestBuilder(wordTagger())
	tbl := table.Table{{}, {"a"}}
	for _, c := range []Canvas{{}, {Width: -1, Height: 10}, {Width: math.NaN(), Height: 10}} {
		if _, err := b.Shapes(PolicyA, tbl, c); !errs.Is(err, errs.ErrCodeInvalidCanvas) {
			t.Errorf("Shapes(%v) error = %v, want INVALID_CANVAS", c, err)
		}
	}
}

func TestTaggerFailure(t *testing.T) {
	boom := errors.New("model unavailable")
	calls := 0
	tg := tagger.Func(func(context.Context, string) ([]tagger.Token, error) {
		calls++
		return nil, boom
	})
	a := NewTextAnnotator(tg)

	if vs, err := a.Verbs(context.Background(), "   "); err != nil || len(vs) != 0 || calls != 0 {
		t.Errorf("blank text: verbs %v err %v calls %d; want empty without tagging", vs, err, calls)
	}

	_, err := a.Verbs(context.Background(), "Approve the invoice")
	if !errs.Is(err, errs.ErrCodeTaggerFailure) {
		t.Errorf("error = %v, want TAGGER_FAILURE", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error should wrap the tagger cause: %v", err)
	}

	_, err = NewBuilder(NewMetrics(0), a).Build(context.Background(), PolicyB, table.Table{{}, {}, {"x"}}, DefaultCanvas())
	if !errs.Is(err, errs.ErrCodeTaggerFailure) {
		t.Errorf("Build error = %v, want TAGGER_FAILURE", err)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	tbl := table.Table{
		{"h0", "h1", "h2", "h3", "h4", "h5"},
		{"Open case", "Agent", "Reviews claim", "", "Pays out", "Close case"},
		{"", "Auditor", "Samples claims", "(quarterly)", "Reports", "x"},
		{"", "Manager", "Signs off", "", "Files report", "y"},
	}
	b := newTestBuilder(wordTagger("Open", "Reviews", "Pays", "Close", "Samples", "Reports", "Signs", "Files"))

	for _, p := range Policies() {
		first, err := b.Build(context.Background(), p, tbl, DefaultCanvas())
		if err != nil {
			t.Fatalf("%s: %v", p.ID, err)
		}
		second, err := b.Build(context.Background(), p, tbl, DefaultCanvas())
		if err != nil {
			t.Fatalf("%s: %v", p.ID, err)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("%s not idempotent:\n%s", p.ID, diff)
		}
	}
}

func TestNilAnnotator(t *testing.T) {
	d, err := NewBuilder(NewMetrics(0), nil).Build(context.Background(), PolicyC, table.Table{{}, {"", "", "a"}}, DefaultCanvas())
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Shapes) != 1 || len(d.Annotations) != 0 {
		t.Errorf("got %d shapes, %d annotations", len(d.Shapes), len(d.Annotations))
	}
}

func TestPolicies(t *testing.T) {
	var ids []string
	for _, p := range Policies() {
		ids = append(ids, p.ID)
		if p.Roles[3] == Label || p.Roles[2] == Label {
			t.Errorf("policy %s has a label in an inner column", p.ID)
		}
	}
	if diff := cmp.Diff([]string{"A", "B", "C", "D"}, ids); diff != "" {
		t.Errorf("policy order (-want +got):\n%s", diff)
	}

	if p, ok := Lookup("c"); !ok || p.Title != "Corporate Policy" {
		t.Errorf("Lookup(c) = %+v, %v", p, ok)
	}
	if _, ok := Lookup("E"); ok {
		t.Error("Lookup(E) should fail")
	}
	if PolicyA.Role(7) != Skip || PolicyA.Role(-1) != Skip {
		t.Error("out-of-range columns should be skipped")
	}
}

func TestNewMetrics(t *testing.T) {
	pt := NewMetrics(PointsPerInch)
	if pt.NodeWidth != 144 || pt.FontSize != 18 || pt.RightBoundary != 720 {
		t.Errorf("point metrics = %+v", pt)
	}
	emu := NewMetrics(914400)
	if emu.NodeHeight != 0.8*914400 || emu.BoxWidth != 914400 {
		t.Errorf("EMU metrics = %+v", emu)
	}
	if NewMetrics(-3) != pt {
		t.Error("non-positive scale should default to points")
	}
}

func TestColorText(t *testing.T) {
	b, err := json.Marshal(Shape{Fill: Attention})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"fill":"#FF0000"`) {
		t.Errorf("marshaled shape = %s", b)
	}

	var s Shape
	if err := json.Unmarshal([]byte(`{"fill":"#00ff00"}`), &s); err != nil {
		t.Fatal(err)
	}
	if s.Fill != Positive {
		t.Errorf("unmarshaled fill = %v", s.Fill)
	}
	if err := s.Fill.UnmarshalText([]byte("#12")); err == nil {
		t.Error("short color should fail")
	}
}
