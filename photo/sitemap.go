package photo

import "flickr-embed/sitemap"

// ImageSitemap appends the largest size to u as an image:image entry. The photo is not
// modified, so repeated calls add the same image.
func (p *Photo) ImageSitemap(u *sitemap.URL) *sitemap.URL {
	if u == nil {
		return nil
	}
	largest, ok := p.Largest()
	if !ok || largest.URL == "" {
		return u
	}
	u.Images = append(u.Images, sitemap.Image{
		Loc:     largest.URL,
		Title:   p.Title,
		Caption: p.Description,
	})
	return u
}
