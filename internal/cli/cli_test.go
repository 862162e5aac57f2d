package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the dstore root command with args, returning stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvertJSONToXML(t *testing.T) {
	in := writeFile(t, "in.json", `{"r":{"a":"x","p":{}}}`)
	out, err := run(t, "convert", "--native-in", "--native-out", in)
	require.NoError(t, err)
	want := "<?xml version=\"1.0\" encoding=\"utf-8\"?>\r\n<r><a>x</a><p></p></r>\n"
	assert.Equal(t, want, out)
}

func TestConvertXMLToJSON(t *testing.T) {
	in := writeFile(t, "in.xml", `<?xml version="1.0" encoding="utf-8"?><r><a>x</a></r>`)
	out, err := run(t, "convert", "--native-in", "--native-out", in)
	require.NoError(t, err)
	assert.Equal(t, `{"r":{"a":"x"}}`+"\n", out)
}

func TestConvertToFile(t *testing.T) {
	in := writeFile(t, "in.json", `{"a":"x"}`)
	dst := filepath.Join(t.TempDir(), "out.xml")
	out, err := run(t, "convert", "--native-in", "--native-out", "-o", dst, in)
	require.NoError(t, err)
	assert.Empty(t, out)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "<?xml version=\"1.0\" encoding=\"utf-8\"?>\r\n<a>x</a>", string(data))
}

func TestConvertExplicitFormats(t *testing.T) {
	// Suffix says nothing; formats come from flags.
	in := writeFile(t, "doc.txt", `{"a":"x"}`)
	out, err := run(t, "convert", "--from", "json", "--to", "json", "--native-in", "--native-out", in)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x"}`+"\n", out)

	_, err = run(t, "convert", in)
	require.Error(t, err)
}

func TestConvertWrappedModes(t *testing.T) {
	// The wrapped JSON document's members become children of the root
	// object; wrapped XML wraps that object in the document element.
	in := writeFile(t, "in.json", `{"my.file":"x"}`)
	out, err := run(t, "convert", in)
	require.NoError(t, err)
	want := "<?xml version=\"1.0\" encoding=\"utf-8\"?>\r\n<root><root><my.file>x</my.file></root></root>\n"
	assert.Equal(t, want, out)
}

func TestConvertIndent(t *testing.T) {
	in := writeFile(t, "in.json", `{"r":{"a":"x"}}`)
	out, err := run(t, "convert", "--native-in", "--native-out", "--to", "json", "--indent", in)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"r\": {\n    \"a\": \"x\"\n  }\n}", out)
}

func TestConvertBadInput(t *testing.T) {
	in := writeFile(t, "in.json", `{"a":`)
	_, err := run(t, "convert", "--native-in", in)
	require.Error(t, err)
}

func TestEscapeCommand(t *testing.T) {
	out, err := run(t, "escape", "my file.txt", "_")
	require.NoError(t, err)
	assert.Equal(t, "my_0020file_002Etxt\n__\n", out)

	out, err = run(t, "escape", "--path", "my dir/file")
	require.NoError(t, err)
	assert.Equal(t, "my_0020dir/file\n", out)
}

func TestUnescapeCommand(t *testing.T) {
	out, err := run(t, "unescape", "my_0020file_002Etxt")
	require.NoError(t, err)
	assert.Equal(t, "my file.txt\n", out)

	_, err = run(t, "unescape", "_0")
	require.Error(t, err)

	out, err = run(t, "unescape", "--path", "a/b_0020c")
	require.NoError(t, err)
	assert.Equal(t, "a/b c\n", out)
}

func TestValidateCommand(t *testing.T) {
	good := writeFile(t, "good.json", `{"r":{"a":"x","p":{}}}`)
	out, err := run(t, "validate", "--native-in", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (2 objects, 1 values)")

	bad := writeFile(t, "bad.json", `{"r":{"a":"x","a":"y"}}`)
	out, err = run(t, "validate", "--native-in", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "ok (2 objects, 1 values)")
	assert.Contains(t, out, "INVALID")
}

func TestDiffEqualAcrossEncodings(t *testing.T) {
	a := writeFile(t, "a.json", `{"r":{"a":"x"}}`)
	b := writeFile(t, "b.xml", `<?xml version="1.0" encoding="utf-8"?><r><a>x</a></r>`)
	out, err := run(t, "diff", "--native-in", a, b)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDiffDiffering(t *testing.T) {
	a := writeFile(t, "a.json", `{"r":{"a":"x"}}`)
	b := writeFile(t, "b.json", `{"r":{"a":"y"}}`)
	out, err := run(t, "diff", "--native-in", a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "differ")
	assert.True(t, strings.Contains(out, `-    "a": "x"`), "missing deletion line in %q", out)
	assert.True(t, strings.Contains(out, `+    "a": "y"`), "missing insertion line in %q", out)
}

func TestDiffMissingFile(t *testing.T) {
	a := writeFile(t, "a.json", `{}`)
	_, err := run(t, "diff", a, filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
