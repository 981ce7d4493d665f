package sitemap

import (
	"encoding/xml"
)

const (
	Namespace      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	ImageNamespace = "http://www.google.com/schemas/sitemap-image/1.1"
)

// URLSet is a sitemap document with the image extension namespace declared.
type URLSet struct {
	XMLName    xml.Name `xml:"urlset"`
	Xmlns      string   `xml:"xmlns,attr"`
	XmlnsImage string   `xml:"xmlns:image,attr"`
	URLs       []*URL   `xml:"url"`
}

func NewURLSet() *URLSet {
	return &URLSet{Xmlns: Namespace, XmlnsImage: ImageNamespace}
}

// Add appends a url element for loc and returns it for images to be added to.
func (s *URLSet) Add(loc string) *URL {
	u := &URL{Loc: loc}
	s.URLs = append(s.URLs, u)
	return u
}

func (s *URLSet) Marshal() ([]byte, error) {
	out, err := xml.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

type URL struct {
	Loc    string  `xml:"loc"`
	Images []Image `xml:"image:image"`
}

type Image struct {
	Loc     string `xml:"image:loc"`
	Title   string `xml:"image:title,omitempty"`
	Caption string `xml:"image:caption,omitempty"`
}

// Fragment marshals a single url element without a document header.
func (u *URL) Fragment() ([]byte, error) {
	return xml.MarshalIndent(struct {
		XMLName xml.Name `xml:"url"`
		*URL
	}{URL: u}, "", "  ")
}
