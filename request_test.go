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
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestNewRequest(t *testing.T) {
	convey.Convey("test request construction", t, func() {
		request := NewRequest("file:///tmp/a", GET, RequestWithHeader(map[string]string{"If-Modified-Since": "x"}))
		convey.So(request.Header, convey.ShouldContainKey, "if-modified-since")
		convey.So(request.GetHeader("IF-MODIFIED-SINCE"), convey.ShouldEqual, "x")
		convey.So(request.ID, convey.ShouldNotBeEmpty)

		request = NewRequest("file:///tmp/a", HEAD, RequestWithID("fixed"))
		convey.So(request.ID, convey.ShouldEqual, "fixed")
		convey.So(request.GetHeader("missing"), convey.ShouldBeEmpty)
	})
}

func TestResponseHelpers(t *testing.T) {
	convey.Convey("test response body helpers", t, func() {
		resp := &Response{Status: 200}
		convey.So(resp.HasBody(), convey.ShouldBeFalse)
		convey.So(resp.String(), convey.ShouldBeEmpty)
		_, err := resp.Json()
		convey.So(err, convey.ShouldNotBeNil)

		resp.Body = stringPtr(`{"name":"json"}`)
		data, err := resp.Json()
		convey.So(err, convey.ShouldBeNil)
		convey.So(data["name"], convey.ShouldEqual, "json")

		upstream := newUpstreamError("http://example.com/")
		convey.So(upstream.Status, convey.ShouldEqual, 502)
		convey.So(upstream.Header, convey.ShouldBeEmpty)
		convey.So(upstream.HasBody(), convey.ShouldBeFalse)
	})
}

func stringPtr(s string) *string {
	return &s
}
