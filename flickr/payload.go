package flickr

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Content is the {"_content": "..."} wrapper used throughout the API.
type Content struct {
	Content string `json:"_content"`
}

type Owner struct {
	NSID     string `json:"nsid"`
	Username string `json:"username"`
	RealName string `json:"realname"`
}

type URL struct {
	Type    string `json:"type"`
	Content string `json:"_content"`
}

// PhotoInfo is the "photo" value of flickr.photos.getInfo.
type PhotoInfo struct {
	ID          string  `json:"id"`
	Owner       *Owner  `json:"owner"`
	Title       Content `json:"title"`
	Description Content `json:"description"`
	URLs        struct {
		URL []URL `json:"url"`
	} `json:"urls"`
}

// PhotoPage returns the "photopage" alternate link, if any.
func (p *PhotoInfo) PhotoPage() string {
	for _, u := range p.URLs.URL {
		if u.Type == "photopage" && u.Content != "" {
			return u.Content
		}
	}
	return ""
}

// Sizes is the "sizes" value of flickr.photos.getSizes. Size is nil when the response
// carried no size list.
type Sizes struct {
	Size []Size `json:"size"`
}

type Size struct {
	Label  string  `json:"label"`
	Width  flexInt `json:"width"`
	Height flexInt `json:"height"`
	Source string  `json:"source"`
	Media  string  `json:"media"`
}

// Photos is the "photos" value of flickr.photos.search.
type Photos struct {
	Page    flexInt       `json:"page"`
	Pages   flexInt       `json:"pages"`
	PerPage flexInt       `json:"perpage"`
	Total   flexInt       `json:"total"`
	Photo   []SearchPhoto `json:"photo"`
}

type SearchPhoto struct {
	ID         string `json:"id"`
	Owner      string `json:"owner"`
	Secret     string `json:"secret"`
	Server     string `json:"server"`
	Title      string `json:"title"`
	DateUpload string `json:"dateupload"`
	DateTaken  string `json:"datetaken"`
}

// Posted is only set when the search requested the date_upload extra.
func (p SearchPhoto) Posted() (time.Time, error) {
	return ParseTime(p.DateUpload)
}

// Taken is only set when the search requested the date_taken extra.
func (p SearchPhoto) Taken() (time.Time, error) {
	return ParseTime(p.DateTaken)
}

// flexInt accepts both 75 and "75"; older API responses quote numbers.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return err
		}
		v = int(f)
	}
	*n = flexInt(v)
	return nil
}

func (n flexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(n))
}

func (n flexInt) Int() int {
	return int(n)
}
