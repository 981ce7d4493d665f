package sitemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLSetMarshal(t *testing.T) {
	set := NewURLSet()
	u := set.Add("https://example.com/post/1")
	u.Images = append(u.Images, Image{
		Loc:     "https://live.staticflickr.com/1/2_b.jpg",
		Title:   "Rock & Roll",
		Caption: "<p>hello</p>",
	}, Image{Loc: "https://live.staticflickr.com/1/3_b.jpg"})

	out, err := set.Marshal()
	require.NoError(t, err)

	expected := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">
  <url>
    <loc>https://example.com/post/1</loc>
    <image:image>
      <image:loc>https://live.staticflickr.com/1/2_b.jpg</image:loc>
      <image:title>Rock &amp; Roll</image:title>
      <image:caption>&lt;p&gt;hello&lt;/p&gt;</image:caption>
    </image:image>
    <image:image>
      <image:loc>https://live.staticflickr.com/1/3_b.jpg</image:loc>
    </image:image>
  </url>
</urlset>
`
	assert.Equal(t, expected, string(out))
}

func TestFragment(t *testing.T) {
	u := &URL{Loc: "https://example.com/"}
	out, err := u.Fragment()
	require.NoError(t, err)
	assert.Equal(t, "<url>\n  <loc>https://example.com/</loc>\n</url>", string(out))
}
