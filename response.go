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
	"bytes"
	"io"
	"net/http"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

// Response the terminal result of a Request
type Response struct {
	Status int               `json:"status"` // Status response status code
	Header map[string]string `json:"header"` // Header response header
	Body   *string           `json:"body"`   // Body buffered body text, nil when absent
	URI    string            `json:"uri"`    // URI of request uri
	Delay  float64           `json:"delay"`  // Delay the time of handle request in seconds
}

// StreamResponse a backend response whose body is still being read.
// Body is nil when the response carries no body.
type StreamResponse struct {
	Status int
	Header map[string]string
	Body   io.ReadCloser
}

// ResponseCallback receive the terminal Response of a Request
type ResponseCallback func(resp *Response)

// bufferPool buffer object pool
var bufferPool *sync.Pool = &sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

var respLog *logrus.Entry = GetLogger("response")

// HasBody whether a body was received
func (r *Response) HasBody() bool {
	return r.Body != nil
}

// String get response text from response body
func (r *Response) String() string {
	if r.Body == nil {
		return ""
	}
	return *r.Body
}

// Json deserialize the response body to json
func (r *Response) Json() (map[string]interface{}, error) {
	jsonResp := map[string]interface{}{}
	err := jsoniter.UnmarshalFromString(r.String(), &jsonResp)
	if err != nil {
		respLog.Errorf("Get json response error %s", err.Error())
		return nil, err
	}
	return jsonResp, nil
}

// newUpstreamError the response reported for transport faults and abrupt closes
func newUpstreamError(uri string) *Response {
	return &Response{
		Status: http.StatusBadGateway,
		Header: map[string]string{},
		URI:    uri,
	}
}

// readBody buffer the whole stream as text.
// An empty stream yields a nil body.
func readBody(body io.ReadCloser) (*string, error) {
	if body == nil {
		return nil, nil
	}
	defer body.Close()
	buffer := bufferPool.Get().(*bytes.Buffer)
	buffer.Reset()
	defer bufferPool.Put(buffer)

	if _, err := io.Copy(buffer, body); err != nil {
		return nil, err
	}
	if buffer.Len() == 0 {
		return nil, nil
	}
	text := buffer.String()
	return &text, nil
}
