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

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

// Results index aligned outcomes of a fan-out, element i belongs to uri i
type Results struct {
	Statuses []int
	Headers  []map[string]string
	Bodies   []*string
}

// Len number of results
func (r *Results) Len() int {
	return len(r.Statuses)
}

// Response rebuild the i-th result as a Response
func (r *Results) Response(i int) *Response {
	return &Response{
		Status: r.Statuses[i],
		Header: r.Headers[i],
		Body:   r.Bodies[i],
	}
}

// ResultsCallback receive the joined results of a fan-out
type ResultsCallback func(results *Results)

// Aggregator fetch many uris concurrently and join the results in input order
type Aggregator struct {
	dispatcher *Dispatcher
}

var aggregateLog *logrus.Entry = GetLogger("aggregator")

func NewAggregator(dispatcher *Dispatcher) *Aggregator {
	return &Aggregator{dispatcher: dispatcher}
}

// FetchAll fetch every uri with the shared method and headers and wait for
// all of them. Repeated uris are fetched independently. No fetch starts when
// any uri has an unsupported scheme.
func (a *Aggregator) FetchAll(ctx context.Context, uris []string, method string, header map[string]string) (*Results, error) {
	runs, requests, err := a.prepare(uris, method, header)
	if err != nil {
		return nil, err
	}
	results := a.join(ctx, runs, requests)
	aggregateLog.Debugf("Fetched %d resources", len(requests))
	return results, nil
}

// Go run FetchAll on a new goroutine and hand the results to callback once.
// An empty uri list invokes the callback immediately with empty results.
func (a *Aggregator) Go(ctx context.Context, uris []string, method string, header map[string]string, callback ResultsCallback) error {
	if len(uris) == 0 {
		callback(collect(nil))
		return nil
	}
	runs, requests, err := a.prepare(uris, method, header)
	if err != nil {
		return err
	}
	go func() {
		callback(a.join(ctx, runs, requests))
	}()
	return nil
}

// join run every fetch on its own goroutine, each writing only its own slot
func (a *Aggregator) join(ctx context.Context, runs []fetchRun, requests []*Request) *Results {
	responses := make([]*Response, len(runs))
	var wg conc.WaitGroup
	for i := range runs {
		i := i
		wg.Go(func() {
			responses[i] = a.dispatcher.safeRun(ctx, requests[i], runs[i])
		})
	}
	wg.Wait()
	return collect(responses)
}

func (a *Aggregator) prepare(uris []string, method string, header map[string]string) ([]fetchRun, []*Request, error) {
	runs := make([]fetchRun, len(uris))
	requests := make([]*Request, len(uris))
	for i, uri := range uris {
		requests[i] = NewRequest(uri, method, RequestWithHeader(header))
		run, err := a.dispatcher.prepare(requests[i])
		if err != nil {
			return nil, nil, fmt.Errorf("uri %d: %w", i, err)
		}
		runs[i] = run
	}
	return runs, requests, nil
}

func collect(responses []*Response) *Results {
	results := &Results{
		Statuses: make([]int, len(responses)),
		Headers:  make([]map[string]string, len(responses)),
		Bodies:   make([]*string, len(responses)),
	}
	for i, resp := range responses {
		results.Statuses[i] = resp.Status
		results.Headers[i] = resp.Header
		results.Bodies[i] = resp.Body
	}
	return results
}
