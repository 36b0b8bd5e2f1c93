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
	"github.com/spf13/afero"
)

func TestSplitMediaType(t *testing.T) {
	convey.Convey("test media type split", t, func() {
		contentType, charset := splitMediaType("text/plain; charset=utf-8")
		convey.So(contentType, convey.ShouldEqual, "text/plain")
		convey.So(charset, convey.ShouldEqual, "utf-8")
		contentType, charset = splitMediaType("text/css")
		convey.So(contentType, convey.ShouldEqual, "text/css")
		convey.So(charset, convey.ShouldEqual, "UTF-8")
		contentType, charset = splitMediaType("image/png")
		convey.So(contentType, convey.ShouldEqual, "image/png")
		convey.So(charset, convey.ShouldBeEmpty)
		contentType, _ = splitMediaType(";;")
		convey.So(contentType, convey.ShouldEqual, DefaultContentType)
	})
	convey.Convey("test content type formatting", t, func() {
		convey.So(formatContentType("text/html", "utf-8"), convey.ShouldEqual, "text/html; charset=utf-8")
		convey.So(formatContentType("image/png", ""), convey.ShouldEqual, "image/png")
		convey.So(formatContentType("", ""), convey.ShouldEqual, DefaultContentType)
	})
}

func TestSniffMimeLookup(t *testing.T) {
	convey.Convey("test content sniffing for unknown extensions", t, func() {
		memFs := afero.NewMemMapFs()
		png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
		convey.So(afero.WriteFile(memFs, "/img", png, 0o644), convey.ShouldBeNil)
		convey.So(afero.WriteFile(memFs, "/notes", []byte("plain words only"), 0o644), convey.ShouldBeNil)
		lookup := NewSniffMimeLookup(NewFileSystem(memFs))

		contentType, charset := lookup.Lookup("/img")
		convey.So(contentType, convey.ShouldEqual, "image/png")
		convey.So(charset, convey.ShouldBeEmpty)

		contentType, charset = lookup.Lookup("/notes")
		convey.So(contentType, convey.ShouldEqual, "text/plain")
		convey.So(charset, convey.ShouldEqual, "utf-8")

		contentType, _ = lookup.Lookup("/missing")
		convey.So(contentType, convey.ShouldEqual, DefaultContentType)
	})
	convey.Convey("test extension wins over content", t, func() {
		lookup := NewSniffMimeLookup(nil)
		contentType, charset := lookup.Lookup("/site/index.html")
		convey.So(contentType, convey.ShouldEqual, "text/html")
		convey.So(charset, convey.ShouldEqual, "utf-8")
		contentType, _ = lookup.Lookup("/no/extension")
		convey.So(contentType, convey.ShouldEqual, DefaultContentType)
	})
}
