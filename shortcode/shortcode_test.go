package shortcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScan(t *testing.T) {
	content := `<p>Intro</p>
[flickr photo="34742333" w="500"]
<p>middle</p>[flickr photo='42' /][flickr photo=7]A caption
over lines[/flickr]
[[flickr photo="escaped"]]
[flickrish photo="no"]`

	got := Scan(content)
	assert.Equal(t, []Attrs{
		{"photo": "34742333", "w": "500"},
		{"photo": "42"},
		{"photo": "7", contentKey: "A caption\nover lines"},
	}, got)
	assert.Equal(t, "A caption\nover lines", got[2].Content())
}

func TestScanNone(t *testing.T) {
	assert.Empty(t, Scan("no directives [here] at all"))
	assert.Empty(t, Scan(""))
}

func TestEnclosingDoesNotSwallowNextDirective(t *testing.T) {
	got := Scan(`[flickr photo=1] text [flickr photo=2]inner[/flickr]`)
	assert.Equal(t, []Attrs{
		{"photo": "1"},
		{"photo": "2", contentKey: "inner"},
	}, got)
}

func TestReplace(t *testing.T) {
	content := `a [flickr photo=1] b [[flickr photo=2]] c [flickr photo=3]x[/flickr] d`
	out := Replace(content, func(a Attrs) string {
		return "<" + a.Photo() + ">"
	})
	assert.Equal(t, `a <1> b [flickr photo=2] c <3> d`, out)

	assert.Equal(t, "plain", Replace("plain", func(Attrs) string { return "x" }))
}

func TestParseAttrs(t *testing.T) {
	table := []struct {
		in     string
		expect Attrs
	}{
		{` photo="123" w="400"`, Attrs{"photo": "123", "w": "400"}},
		{` PHOTO='123' W=400`, Attrs{"photo": "123", "w": "400"}},
		{" photo=\u00a0\"1\"\u200bw=2", Attrs{"photo": "1", "w": "2"}},
		{` data-x="y" "pos one" 'pos two' bare`, Attrs{"data-x": "y", "0": "pos one", "1": "pos two", "2": "bare"}},
		{` photo=""`, Attrs{"photo": ""}},
		{``, Attrs{}},
	}
	for _, tc := range table {
		assert.Equal(t, tc.expect, ParseAttrs(tc.in), "input %q", tc.in)
	}
}

func TestAttrsAccessors(t *testing.T) {
	a := Attrs{"photo": "  123 ", "w": "400px"}
	assert.Equal(t, "123", a.Photo())
	assert.Equal(t, 400, a.Width())

	assert.Equal(t, 0, Attrs{}.Width())
	assert.Equal(t, 20, Attrs{"w": "-20"}.Width())
	assert.Equal(t, 0, Attrs{"w": "wide"}.Width())
	assert.Equal(t, "", Attrs{}.Photo())
}

func TestScanLongDocument(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("para [flickr photo=1] ")
	}
	assert.Len(t, Scan(b.String()), 50)
}
