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
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Dispatcher route a request to the file emulator or the network client
// by its uri scheme and buffer the result into a Response
type Dispatcher struct {
	file      *FileClient
	network   NetworkClient
	statistic StatisticInterface
}

// DispatcherOption optional parameters of the dispatcher
type DispatcherOption func(d *Dispatcher)

var dispatchLog *logrus.Entry = GetLogger("dispatcher")

// DispatcherWithFileClient set the client serving file: uris
func DispatcherWithFileClient(file *FileClient) DispatcherOption {
	return func(d *Dispatcher) {
		d.file = file
	}
}

// DispatcherWithNetworkClient set the client serving http: and https: uris
func DispatcherWithNetworkClient(network NetworkClient) DispatcherOption {
	return func(d *Dispatcher) {
		d.network = network
	}
}

// DispatcherWithStatistic set the statistic recording completed responses
func DispatcherWithStatistic(statistic StatisticInterface) DispatcherOption {
	return func(d *Dispatcher) {
		d.statistic = statistic
	}
}

func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		file:      NewFileClient(),
		network:   NewHTTPClient(),
		statistic: NewDefaultStatistic(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDispatcherFromSettings build a dispatcher from the configuration
func NewDispatcherFromSettings(c *Configuration) (*Dispatcher, error) {
	httpSettings, err := c.HTTP()
	if err != nil {
		return nil, err
	}
	fsys := NewOsFileSystem(c.GetString("fs.root"))
	var lookup MimeLookup
	if c.GetBool("mime.enabled") {
		lookup = NewSniffMimeLookup(fsys)
	}
	return NewDispatcher(
		DispatcherWithFileClient(NewFileClient(FileClientWithFileSystem(fsys), FileClientWithMimeLookup(lookup))),
		DispatcherWithNetworkClient(NewHTTPClientFromSettings(httpSettings)),
	), nil
}

// Statistic counters of the responses produced so far
func (d *Dispatcher) Statistic() StatisticInterface {
	return d.statistic
}

// Fetch the request and return its terminal Response.
// Only a nil request or an unsupported or unparsable uri returns an error,
// every other fault is reported as a status code.
func (d *Dispatcher) Fetch(ctx context.Context, req *Request) (*Response, error) {
	run, err := d.prepare(req)
	if err != nil {
		return nil, err
	}
	return d.safeRun(ctx, req, run), nil
}

// Go fetch the request on a new goroutine and hand the Response to callback
// exactly once. Errors are returned before any work starts.
func (d *Dispatcher) Go(ctx context.Context, req *Request, callback ResponseCallback) error {
	run, err := d.prepare(req)
	if err != nil {
		return err
	}
	t := newTerminal(callback)
	go func() {
		t.fire(d.safeRun(ctx, req, run))
	}()
	return nil
}

// safeRun start the fetch, a panic inside a backend becomes a 502
func (d *Dispatcher) safeRun(ctx context.Context, req *Request, run fetchRun) (resp *Response) {
	defer func() {
		if p := recover(); p != nil {
			dispatchLog.WithField("request_id", req.ID).Errorf("panic recover! p: %v", p)
			resp = newUpstreamError(req.URI)
		}
	}()
	return run(ctx)
}

// fetchRun a prepared fetch waiting to be started
type fetchRun func(ctx context.Context) *Response

// prepare select the backend so that scheme errors surface before any I/O
func (d *Dispatcher) prepare(req *Request) (fetchRun, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	scheme, u, err := ParseScheme(req.URI)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) *Response {
		now := time.Now()
		var resp *Response
		switch scheme {
		case SchemeFile:
			resp = d.finish(req, d.file.Do(req, FilePath(u)))
		case SchemeHTTP, SchemeHTTPS:
			resp = d.fetchNetwork(ctx, req)
		default:
			panic(fmt.Sprintf("unhandled scheme %s", scheme))
		}
		resp.Delay = time.Since(now).Seconds()
		d.statistic.Record(resp)
		return resp
	}, nil
}

func (d *Dispatcher) fetchNetwork(ctx context.Context, req *Request) *Response {
	stream, err := d.network.Do(ctx, req)
	if err != nil {
		dispatchLog.WithField("request_id", req.ID).Errorf("Request %s error %s", req.URI, err.Error())
		return newUpstreamError(req.URI)
	}
	return d.finish(req, stream)
}

// finish buffer the stream body. A body that cannot be read to its end is
// an abrupt close and reported as 502 with empty headers.
func (d *Dispatcher) finish(req *Request, stream *StreamResponse) *Response {
	body, err := readBody(stream.Body)
	if err != nil {
		dispatchLog.WithField("request_id", req.ID).Errorf("%s %s", ErrResponseRead.Error(), err.Error())
		return newUpstreamError(req.URI)
	}
	return &Response{
		Status: stream.Status,
		Header: stream.Header,
		Body:   body,
		URI:    req.URI,
	}
}

// terminal deliver a response at most once
type terminal struct {
	once     sync.Once
	callback ResponseCallback
}

func newTerminal(callback ResponseCallback) *terminal {
	return &terminal{callback: callback}
}

// fire invoke the callback, later calls are ignored
func (t *terminal) fire(resp *Response) bool {
	fired := false
	t.once.Do(func() {
		fired = true
		t.callback(resp)
	})
	return fired
}
