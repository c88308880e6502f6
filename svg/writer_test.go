package svg

import (
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func TestWriteRoundTrip(t *testing.T) {
	// parse(serialize(parse(s))) must equal parse(s)
	inputs := []string{
		`<svg width="10" height="10"><circle cx="5" cy="5" r="3" fill="rgb(255,0,0)"/></svg>`,
		`<svg width="20" height="20"><path d="M2,2 L18,2 L18,18 L2,18 Z M6,6 L14,6 L14,14 L6,14 Z" fill="black" fill-rule="evenodd"/></svg>`,
		`<svg width="100" height="10"><line x1="0" y1="5" x2="100" y2="5" stroke="black" stroke-width="2" stroke-dasharray="10 5"/></svg>`,
		`<svg width="200" height="200" viewBox="0 0 100 100"><rect x="25" y="25" width="50" height="50" fill="blue"/></svg>`,
		`<svg width="100" height="100"><path d="M10,50 C10,10 40,10 40,50 S70,90 70,50" stroke="black" fill="none"/></svg>`,
		`<svg width="50" height="50"><g transform="translate(5,5)" fill="red"><ellipse cx="10" cy="10" rx="5" ry="3" stroke="green" stroke-linecap="round" stroke-opacity="0.5"/></g></svg>`,
		`<svg width="50" height="50"><text x="5" y="10" font-size="7">ok</text></svg>`,
		`<svg width="50" height="50"><rect x="1" y="1" width="10" height="10" rx="2" transform="rotate(30)" opacity="0.7"/></svg>`,
	}
	for _, input := range inputs {
		doc1, _, err := ParseString(input)
		test.That(t, err == nil, input)

		var sb strings.Builder
		test.That(t, Write(&sb, doc1) == nil)

		doc2, diags, err := ParseString(sb.String())
		test.That(t, err == nil, sb.String())
		test.T(t, len(diags), 0, sb.String())
		test.T(t, doc2, doc1, input)
	}
}

func TestWriteMinified(t *testing.T) {
	doc, _, err := ParseString(`<svg width="10" height="10"><circle cx="5" cy="5" r="3" fill="red"/></svg>`)
	test.That(t, err == nil)

	var sb strings.Builder
	test.That(t, WriteMinified(&sb, doc) == nil)
	out := sb.String()
	test.That(t, strings.Contains(out, "<svg"))
	test.That(t, strings.Contains(out, "circle"))

	// the minified output still parses to the same scene
	doc2, _, err := ParseString(out)
	test.That(t, err == nil)
	test.T(t, len(doc2.Shapes), len(doc.Shapes))
}
