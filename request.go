// MIT License

// Copyright (c) 2023 wetrycode

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package urifetch

import (
	"fmt"
	"net/url"
	"strings"
)

// Request method constant definition
const (
	GET     string = "GET"
	HEAD    string = "HEAD"
	POST    string = "POST"
	PUT     string = "PUT"
	DELETE  string = "DELETE"
	OPTIONS string = "OPTIONS"
)

// Scheme the backend family selected by a uri scheme
type Scheme int

const (
	// SchemeFile resources served from the local filesystem
	SchemeFile Scheme = iota + 1
	// SchemeHTTP plain http resources
	SchemeHTTP
	// SchemeHTTPS tls http resources
	SchemeHTTPS
)

func (s Scheme) String() string {
	switch s {
	case SchemeFile:
		return "file"
	case SchemeHTTP:
		return "http"
	case SchemeHTTPS:
		return "https"
	}
	return "unknown"
}

// ParseScheme parse the uri and match its scheme to a backend.
// Schemes other than file, http and https return ErrUnsupportedScheme.
func ParseScheme(uri string) (Scheme, *url.URL, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return 0, nil, fmt.Errorf("%w %s: %s", ErrInvalidURI, uri, err.Error())
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		return SchemeFile, u, nil
	case "http":
		return SchemeHTTP, u, nil
	case "https":
		return SchemeHTTPS, u, nil
	}
	return 0, nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, uri)
}

// Request a single resource fetch.
// It should not be modified after it has been handed to a Dispatcher.
type Request struct {
	// URI the resource location
	URI string `json:"uri"`
	// Method HEAD, GET or anything else
	Method string `json:"method"`
	// Header request headers, names are lower-cased
	Header map[string]string `json:"header"`
	// ID request id used to correlate log lines
	ID string `json:"id"`
}

// RequestOption optional parameters of NewRequest
type RequestOption func(r *Request)

// RequestWithHeader set request headers, the names are lower-cased
func RequestWithHeader(header map[string]string) RequestOption {
	return func(r *Request) {
		r.Header = make(map[string]string, len(header))
		for k, v := range header {
			r.Header[strings.ToLower(k)] = v
		}
	}
}

// RequestWithID override the generated request id
func RequestWithID(id string) RequestOption {
	return func(r *Request) {
		r.ID = id
	}
}

// NewRequest create a new Request
func NewRequest(uri string, method string, opts ...RequestOption) *Request {
	request := &Request{
		URI:    uri,
		Method: method,
		Header: make(map[string]string),
		ID:     GetUUID(),
	}
	for _, o := range opts {
		o(request)
	}
	return request
}

// GetHeader get the request header value by case-insensitive name
func (r *Request) GetHeader(name string) string {
	if r.Header == nil {
		return ""
	}
	return r.Header[strings.ToLower(name)]
}
