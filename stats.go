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
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// RequestStats requests completed
	RequestStats string = "requests"
	// UpstreamErrorStats requests answered with 502
	UpstreamErrorStats string = "upstream_errors"
)

type StatisticInterface interface {
	GetAllStats() map[string]uint64
	// Record count a completed response
	Record(resp *Response)
	Incr(metric string)
	Get(metric string) uint64
	// AverageDelay mean seconds per request
	AverageDelay() float64
}

// DefaultStatistic in memory counters keyed by metric name,
// status codes are counted under their decimal text
type DefaultStatistic struct {
	metrics sync.Map
	delay   int64
}

func NewDefaultStatistic() *DefaultStatistic {
	s := &DefaultStatistic{}
	s.counter(RequestStats)
	s.counter(UpstreamErrorStats)
	return s
}

func (s *DefaultStatistic) counter(metric string) *uint64 {
	value, _ := s.metrics.LoadOrStore(metric, new(uint64))
	return value.(*uint64)
}

func (s *DefaultStatistic) Incr(metric string) {
	atomic.AddUint64(s.counter(metric), 1)
}

func (s *DefaultStatistic) Get(metric string) uint64 {
	value, ok := s.metrics.Load(metric)
	if !ok {
		return 0
	}
	return atomic.LoadUint64(value.(*uint64))
}

func (s *DefaultStatistic) Record(resp *Response) {
	s.Incr(RequestStats)
	s.Incr(strconv.Itoa(resp.Status))
	if resp.Status == 502 {
		s.Incr(UpstreamErrorStats)
	}
	atomic.AddInt64(&s.delay, int64(resp.Delay*float64(time.Second)))
}

func (s *DefaultStatistic) AverageDelay() float64 {
	requests := s.Get(RequestStats)
	if requests == 0 {
		return 0
	}
	total := time.Duration(atomic.LoadInt64(&s.delay)).Seconds()
	return decimal.NewFromFloat(total).Div(decimal.NewFromInt(int64(requests))).Round(2).InexactFloat64()
}

func (s *DefaultStatistic) GetAllStats() map[string]uint64 {
	result := make(map[string]uint64)
	s.metrics.Range(func(key any, _ any) bool {
		k := key.(string)
		result[k] = s.Get(k)
		return true

	})
	return result
}
