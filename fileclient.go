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
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wxnacy/wgo/arrays"
)

// Header names produced by the file emulator
const (
	HeaderDate            string = "date"
	HeaderLastModified    string = "last-modified"
	HeaderContentType     string = "content-type"
	HeaderLocation        string = "location"
	HeaderAllow           string = "allow"
	HeaderIfModifiedSince string = "if-modified-since"
)

// maxAncestorProbes parent directories probed for a missing path
// before the filesystem root is tried
const maxAncestorProbes int = 2

// statusMessages plain text bodies of the error statuses
var statusMessages = map[int]string{
	http.StatusForbidden:        "403: Access denied.",
	http.StatusNotFound:         "404: File not found.",
	http.StatusMethodNotAllowed: "405: Only the HEAD or GET methods are allowed.",
	http.StatusBadGateway:       "502: Error reading file.",
}

var allowedMethods = []string{HEAD, GET}

var fileLog *logrus.Entry = GetLogger("file")

// FileClient serves file: resources with http semantics derived from
// filesystem metadata. Every outcome is mapped onto a status code.
type FileClient struct {
	fs   FileSystem
	mime MimeLookup
	now  func() time.Time
}

// FileClientOption optional parameters of the file client
type FileClientOption func(f *FileClient)

// FileClientWithFileSystem set the filesystem queried by the client
func FileClientWithFileSystem(fsys FileSystem) FileClientOption {
	return func(f *FileClient) {
		f.fs = fsys
	}
}

// FileClientWithMimeLookup set the content type lookup, nil disables it
func FileClientWithMimeLookup(lookup MimeLookup) FileClientOption {
	return func(f *FileClient) {
		f.mime = lookup
	}
}

// FileClientWithClock set the clock used for the date header
func FileClientWithClock(now func() time.Time) FileClientOption {
	return func(f *FileClient) {
		f.now = now
	}
}

// NewFileClient the default client reads the local filesystem and
// has no content type lookup
func NewFileClient(opts ...FileClientOption) *FileClient {
	client := &FileClient{
		fs:  NewOsFileSystem(""),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// FilePath the filesystem path addressed by a file: uri
func FilePath(u *url.URL) string {
	if u.Path == "" && u.Opaque != "" {
		if p, err := url.PathUnescape(u.Opaque); err == nil {
			return p
		}
		return u.Opaque
	}
	return u.Path
}

// Do answer the request. The returned response is always complete apart
// from the body stream of a 200 GET.
func (f *FileClient) Do(req *Request, path string) *StreamResponse {
	resp := &StreamResponse{
		Header: make(map[string]string),
	}
	if arrays.ContainsString(allowedMethods, req.Method) == -1 {
		resp.Status = http.StatusMethodNotAllowed
		resp.Header[HeaderAllow] = strings.Join(allowedMethods, ", ")
		resp.Body = io.NopCloser(strings.NewReader(statusMessages[resp.Status]))
		return resp
	}
	resp.Status = f.head(req, path, resp.Header)
	return f.afterHead(req, path, resp)
}

// head resolve the status of path and set the date headers
func (f *FileClient) head(req *Request, path string, header map[string]string) int {
	log := fileLog.WithField("request_id", req.ID)
	info, err := f.fs.Lstat(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return f.probeAncestors(path, header)
		case errors.Is(err, fs.ErrPermission):
			return http.StatusForbidden
		default:
			log.Warnf("stat %s error %s", path, err.Error())
			return http.StatusBadGateway
		}
	}

	mode := info.Mode()
	switch {
	case mode.IsRegular():
		f.stamp(header, info.ModTime())
		if notModified(req.GetHeader(HeaderIfModifiedSince), info.ModTime()) {
			return http.StatusNotModified
		}
		return http.StatusOK
	case mode&fs.ModeSymlink != 0:
		f.stamp(header, info.ModTime())
		link, err := f.fs.Readlink(path)
		if err != nil {
			log.Warnf("readlink %s error %s", path, err.Error())
			return http.StatusBadGateway
		}
		header[HeaderLocation] = link
		return http.StatusTemporaryRedirect
	default:
		f.stamp(header, info.ModTime())
		return http.StatusNotFound
	}
}

// probeAncestors look for the nearest existing ancestor of a missing path
// so that the 404 can still carry date headers.
func (f *FileClient) probeAncestors(path string, header map[string]string) int {
	for _, dir := range ancestors(path, maxAncestorProbes) {
		info, err := f.fs.Stat(dir)
		if err == nil {
			f.stamp(header, info.ModTime())
			return http.StatusNotFound
		}
		if !errors.Is(err, fs.ErrNotExist) {
			fileLog.Warnf("stat ancestor %s error %s", dir, err.Error())
			return http.StatusBadGateway
		}
	}
	return http.StatusNotFound
}

// ancestors up to depth parents of path followed by the filesystem root
func ancestors(path string, depth int) []string {
	dirs := make([]string, 0, depth+1)
	for dir := path; len(dirs) < depth; {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dirs = append(dirs, parent)
		dir = parent
	}
	root := filepath.VolumeName(path) + string(filepath.Separator)
	if len(dirs) == 0 || dirs[len(dirs)-1] != root {
		dirs = append(dirs, root)
	}
	return dirs
}

func (f *FileClient) stamp(header map[string]string, modified time.Time) {
	header[HeaderDate] = f.now().UTC().Format(http.TimeFormat)
	header[HeaderLastModified] = modified.UTC().Format(http.TimeFormat)
}

// notModified compares at the one second resolution of http dates.
// An unparsable if-modified-since is ignored.
func notModified(ifModifiedSince string, modified time.Time) bool {
	if ifModifiedSince == "" {
		return false
	}
	since, err := http.ParseTime(ifModifiedSince)
	if err != nil {
		return false
	}
	return !since.Before(modified.Truncate(time.Second))
}

func (f *FileClient) afterHead(req *Request, path string, resp *StreamResponse) *StreamResponse {
	if req.Method == HEAD {
		return resp
	}
	if resp.Status != http.StatusOK {
		if msg, ok := statusMessages[resp.Status]; ok {
			resp.Header[HeaderContentType] = "text/plain; charset=utf-8"
			resp.Body = io.NopCloser(strings.NewReader(msg))
		}
		return resp
	}
	return f.get(req, path, resp)
}

// get attach the content type and the file stream
func (f *FileClient) get(req *Request, path string, resp *StreamResponse) *StreamResponse {
	contentType, charset := DefaultContentType, ""
	if f.mime != nil {
		contentType, charset = f.mime.Lookup(path)
	}
	resp.Header[HeaderContentType] = formatContentType(contentType, charset)

	file, err := f.fs.Open(path)
	if err != nil {
		fileLog.WithField("request_id", req.ID).Errorf("open %s error %s", path, err.Error())
		return &StreamResponse{
			Status: http.StatusBadGateway,
			Header: map[string]string{},
		}
	}
	resp.Body = file
	return resp
}
