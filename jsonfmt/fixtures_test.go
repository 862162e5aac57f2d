package jsonfmt_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/substrail/dstore/ir"
	"github.com/substrail/dstore/jsonfmt"
	"github.com/substrail/dstore/stream"
	"github.com/substrail/dstore/xmlfmt"
)

// nestedFixture is the shared cross-encoding document: one root object
// with text leaves (one empty), a deeply nested object chain and an
// empty object sibling.
func nestedFixture(t *testing.T) *ir.Node {
	t.Helper()
	root := ir.MustObject("rootObject")
	o1, o2, o3 := ir.MustObject("o"), ir.MustObject("o"), ir.MustObject("o")
	for _, step := range []struct {
		parent, child *ir.Node
	}{
		{root, ir.MustText("a", "a2")},
		{root, ir.MustText("a2", "aa")},
		{root, ir.MustText("aa", "")},
		{o2, o3},
		{o1, o2},
		{root, o1},
		{root, ir.MustObject("p")},
	} {
		if err := step.parent.Append(step.child); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestCanonicalDocuments(t *testing.T) {
	nested := nestedFixture(t)
	tests := []struct {
		desc string
		read func() (*ir.Node, error)
		want *ir.Node
	}{
		{
			"empty native json is no root",
			func() (*ir.Node, error) {
				return stream.ReadNode(jsonfmt.NewReader(strings.NewReader(`{}`), jsonfmt.Native()))
			},
			nil,
		},
		{
			"native json text root",
			func() (*ir.Node, error) {
				return stream.ReadNode(jsonfmt.NewReader(strings.NewReader(`{"textRoot":"abc"}`), jsonfmt.Native()))
			},
			ir.MustText("textRoot", "abc"),
		},
		{
			"wrapped xml text root matches the json tree",
			func() (*ir.Node, error) {
				return stream.ReadNode(xmlfmt.NewReader(strings.NewReader(`<root><textRoot>abc</textRoot></root>`)))
			},
			ir.MustText("textRoot", "abc"),
		},
		{
			"empty wrapped json is an empty root object",
			func() (*ir.Node, error) {
				return stream.ReadNode(jsonfmt.NewReader(strings.NewReader(`{}`)))
			},
			ir.MustObject("root"),
		},
		{
			"nested native json",
			func() (*ir.Node, error) {
				const doc = `{"rootObject":{"a":"a2","a2":"aa","aa":"","o":{"o":{"o":{}}},"p":{}}}`
				return stream.ReadNode(jsonfmt.NewReader(strings.NewReader(doc), jsonfmt.Native()))
			},
			nested,
		},
		{
			"nested native xml parses to the identical tree",
			func() (*ir.Node, error) {
				const doc = `<rootObject><a>a2</a><a2>aa</a2><aa /><o><o><o></o></o></o><p></p></rootObject>`
				return stream.ReadNode(xmlfmt.NewReader(strings.NewReader(doc), xmlfmt.Native()))
			},
			nested,
		},
	}
	for _, tc := range tests {
		got, err := tc.read()
		if err != nil {
			t.Errorf("%s: %v", tc.desc, err)
			continue
		}
		if !ir.Equal(tc.want, got) {
			t.Errorf("%s: tree mismatch", tc.desc)
		}
	}
}

// The nested fixture written back out with indentation must reproduce
// the canonical pretty-printed bytes in both encodings.
func TestCanonicalPrettyPrint(t *testing.T) {
	nested := nestedFixture(t)

	var jbuf bytes.Buffer
	jw := jsonfmt.NewWriter(&jbuf, jsonfmt.Native(), jsonfmt.Indent(), jsonfmt.Newline("\n"))
	if err := stream.WriteNode(jw, nested); err != nil {
		t.Fatal(err)
	}
	if err := jw.Close(); err != nil {
		t.Fatal(err)
	}
	wantJSON := "{\n" +
		"  \"rootObject\": {\n" +
		"    \"a\": \"a2\",\n" +
		"    \"a2\": \"aa\",\n" +
		"    \"aa\": \"\",\n" +
		"    \"o\": {\n" +
		"      \"o\": {\n" +
		"        \"o\": {}\n" +
		"      }\n" +
		"    },\n" +
		"    \"p\": {}\n" +
		"  }\n" +
		"}"
	if jbuf.String() != wantJSON {
		t.Errorf("json:\n got: %s\nwant: %s", jbuf.String(), wantJSON)
	}

	var xbuf bytes.Buffer
	xw := xmlfmt.NewWriter(&xbuf, xmlfmt.Native(), xmlfmt.Indent(), xmlfmt.Newline("\n"))
	if err := stream.WriteNode(xw, nested); err != nil {
		t.Fatal(err)
	}
	if err := xw.Close(); err != nil {
		t.Fatal(err)
	}
	wantXML := xmlfmt.Prolog + "\n" +
		"<rootObject>\n" +
		"  <a>a2</a>\n" +
		"  <a2>aa</a2>\n" +
		"  <aa />\n" +
		"  <o>\n" +
		"    <o>\n" +
		"      <o></o>\n" +
		"    </o>\n" +
		"  </o>\n" +
		"  <p></p>\n" +
		"</rootObject>"
	if xbuf.String() != wantXML {
		t.Errorf("xml:\n got: %s\nwant: %s", xbuf.String(), wantXML)
	}
}

// A tree survives any chain of encodings unchanged.
func TestCrossEncodingPipeline(t *testing.T) {
	nested := nestedFixture(t)

	// json -> tokens -> xml -> tokens -> json -> tree
	var step1 bytes.Buffer
	w1 := jsonfmt.NewWriter(&step1, jsonfmt.Native())
	if err := stream.WriteNode(w1, nested); err != nil {
		t.Fatal(err)
	}
	if err := w1.Close(); err != nil {
		t.Fatal(err)
	}

	var step2 bytes.Buffer
	w2 := xmlfmt.NewWriter(&step2, xmlfmt.Native(), xmlfmt.Indent())
	if err := stream.CopyTokens(w2, jsonfmt.NewReader(strings.NewReader(step1.String()), jsonfmt.Native())); err != nil {
		t.Fatal(err)
	}
	if err := w2.Close(); err != nil {
		t.Fatal(err)
	}

	var step3 bytes.Buffer
	w3 := jsonfmt.NewWriter(&step3, jsonfmt.Native(), jsonfmt.Indent(), jsonfmt.Newline("\r\n"))
	if err := stream.CopyTokens(w3, xmlfmt.NewReader(strings.NewReader(step2.String()), xmlfmt.Native())); err != nil {
		t.Fatal(err)
	}
	if err := w3.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := stream.ReadNode(jsonfmt.NewReader(strings.NewReader(step3.String()), jsonfmt.Native()))
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(nested, got) {
		t.Errorf("tree changed across the pipeline\nfinal document: %s", step3.String())
	}
}
