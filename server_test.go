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
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestServer() *httptest.Server {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/testGET", func(c *gin.Context) {
		c.String(200, "GET")
	})
	router.HEAD("/testGET", func(c *gin.Context) {
		c.Status(200)
	})
	router.GET("/testHeader", func(c *gin.Context) {
		c.String(200, c.GetHeader("key"))
	})
	router.GET("/test403", func(c *gin.Context) {
		c.String(403, "forbidden")
	})
	router.GET("/testEmpty", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	router.GET("/testRedirect", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/testGET")
	})
	router.GET("/testSleep", func(c *gin.Context) {
		ms, _ := strconv.Atoi(c.Query("ms"))
		time.Sleep(time.Duration(ms) * time.Millisecond)
		c.String(200, c.Query("name"))
	})
	router.GET("/testAbrupt", func(c *gin.Context) {
		conn, buf, err := c.Writer.Hijack()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = buf.WriteString("HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 100\r\n\r\npartial")
		_ = buf.Flush()
	})
	return httptest.NewServer(router)
}

// fakeFileSystem FileSystem with scripted answers for fault cases
type fakeFileSystem struct {
	lstat    func(name string) (fs.FileInfo, error)
	stat     func(name string) (fs.FileInfo, error)
	readlink func(name string) (string, error)
	open     func(name string) (io.ReadCloser, error)
}

func notExist(op string) func(name string) (fs.FileInfo, error) {
	return func(name string) (fs.FileInfo, error) {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}
}

func (f *fakeFileSystem) Lstat(name string) (fs.FileInfo, error) {
	if f.lstat == nil {
		return notExist("lstat")(name)
	}
	return f.lstat(name)
}

func (f *fakeFileSystem) Stat(name string) (fs.FileInfo, error) {
	if f.stat == nil {
		return notExist("stat")(name)
	}
	return f.stat(name)
}

func (f *fakeFileSystem) Readlink(name string) (string, error) {
	if f.readlink == nil {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: ErrNoReadlink}
	}
	return f.readlink(name)
}

func (f *fakeFileSystem) Open(name string) (io.ReadCloser, error) {
	if f.open == nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return f.open(name)
}

// fakeFileInfo fs.FileInfo with a fixed mode and mtime
type fakeFileInfo struct {
	name    string
	mode    fs.FileMode
	modTime time.Time
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() fs.FileMode  { return f.mode }
func (f fakeFileInfo) ModTime() time.Time { return f.modTime }
func (f fakeFileInfo) IsDir() bool        { return f.mode.IsDir() }
func (f fakeFileInfo) Sys() interface{}   { return nil }
