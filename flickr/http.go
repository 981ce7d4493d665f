package flickr

import (
	"crypto/tls"
	"errors"
	"net/http"
	"time"
)

const userAgent = "flickr-embed (+https://www.flickr.com/services/api/)"

// RequestOptions are the fixed transport settings for API calls.
type RequestOptions struct {
	Redirects int
	Timeout   time.Duration
	VerifyTLS bool
}

var DefaultRequestOptions = RequestOptions{
	Redirects: 1,
	Timeout:   30 * time.Second,
	VerifyTLS: true,
}

var errTooManyRedirects = errors.New("flickr: too many redirects")

// NewHTTPClient builds an HTTP/1.1 client that does not negotiate compression.
func NewHTTPClient(opts RequestOptions) *http.Client {
	transport := &http.Transport{
		Proxy:              http.ProxyFromEnvironment,
		DisableCompression: true,
		ForceAttemptHTTP2:  false,
		// a non-nil empty map disables HTTP/2
		TLSNextProto: map[string]func(string, *tls.Conn) http.RoundTripper{},
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !opts.VerifyTLS,
		},
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > opts.Redirects {
				return errTooManyRedirects
			}
			return nil
		},
	}
}
