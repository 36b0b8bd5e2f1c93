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
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultContentType used when no MimeLookup is configured
const DefaultContentType string = "application/octet-stream"

// MimeLookup resolve the content type and charset of a file
type MimeLookup interface {
	Lookup(path string) (contentType string, charset string)
}

// SniffMimeLookup looks the extension up first and sniffs the content of
// files whose extension is unknown.
type SniffMimeLookup struct {
	fs FileSystem
}

func NewSniffMimeLookup(fsys FileSystem) *SniffMimeLookup {
	return &SniffMimeLookup{fs: fsys}
}

func (m *SniffMimeLookup) Lookup(path string) (string, string) {
	if ext := filepath.Ext(path); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return splitMediaType(t)
		}
	}
	if m.fs == nil {
		return DefaultContentType, ""
	}
	file, err := m.fs.Open(path)
	if err != nil {
		return DefaultContentType, ""
	}
	defer file.Close()
	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return DefaultContentType, ""
	}
	return splitMediaType(detected.String())
}

// splitMediaType split "text/plain; charset=utf-8" into its type and charset.
// text types without an explicit charset are reported as UTF-8.
func splitMediaType(value string) (string, string) {
	mediaType, params, err := mime.ParseMediaType(value)
	if err != nil {
		return DefaultContentType, ""
	}
	if charset, ok := params["charset"]; ok {
		return mediaType, charset
	}
	if strings.HasPrefix(mediaType, "text/") {
		return mediaType, "UTF-8"
	}
	return mediaType, ""
}

func formatContentType(contentType string, charset string) string {
	if contentType == "" {
		contentType = DefaultContentType
	}
	if charset == "" {
		return contentType
	}
	return contentType + "; charset=" + charset
}
