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

	"github.com/spf13/afero"
)

// FileSystem the filesystem queries the file emulator relies on
type FileSystem interface {
	// Lstat query metadata without following a final symlink
	Lstat(name string) (fs.FileInfo, error)
	// Stat query metadata following symlinks
	Stat(name string) (fs.FileInfo, error)
	// Readlink read the raw link text
	Readlink(name string) (string, error)
	// Open open the file for streaming
	Open(name string) (io.ReadCloser, error)
}

// AferoFileSystem FileSystem backed by an afero.Fs
type AferoFileSystem struct {
	fs afero.Fs
}

// NewFileSystem wrap an afero.Fs, such as afero.NewOsFs()
func NewFileSystem(fsys afero.Fs) *AferoFileSystem {
	return &AferoFileSystem{fs: fsys}
}

// NewOsFileSystem the local filesystem, optionally jailed below root
func NewOsFileSystem(root string) *AferoFileSystem {
	var fsys afero.Fs = afero.NewOsFs()
	if root != "" {
		fsys = afero.NewBasePathFs(fsys, root)
	}
	return NewFileSystem(fsys)
}

// Lstat falls back to Stat when the backing fs has no symlink support
func (a *AferoFileSystem) Lstat(name string) (fs.FileInfo, error) {
	if lstater, ok := a.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(name)
		return info, err
	}
	return a.fs.Stat(name)
}

func (a *AferoFileSystem) Stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(name)
}

func (a *AferoFileSystem) Readlink(name string) (string, error) {
	if reader, ok := a.fs.(afero.LinkReader); ok {
		return reader.ReadlinkIfPossible(name)
	}
	return "", &fs.PathError{Op: "readlink", Path: name, Err: ErrNoReadlink}
}

func (a *AferoFileSystem) Open(name string) (io.ReadCloser, error) {
	return a.fs.Open(name)
}
