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
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"golang.org/x/net/http/httpproxy"
)

// NetworkClient issue a request over the network.
// An error means no response was received.
type NetworkClient interface {
	Do(ctx context.Context, req *Request) (*StreamResponse, error)
}

// HTTPClient NetworkClient for http and https resources
type HTTPClient struct {
	// transport shared by all requests of the client
	transport *http.Transport
	// client network request client
	client *http.Client
	// RateLimiter limit requests per second, unlimited by default
	RateLimiter ratelimit.Limiter
}

// HTTPClientOption optional parameters of the http client
type HTTPClientOption func(c *HTTPClient)

var netLog *logrus.Entry = GetLogger("network")

// envProxyOnce System proxies load only one
var envProxyOnce sync.Once

// envProxyFuncValue System proxies get funcation
var envProxyFuncValue func(*url.URL) (*url.URL, error)

// proxyFunc http.Transport.Proxy return the proxy configured in the environment
func proxyFunc(req *http.Request) (*url.URL, error) {
	envProxyOnce.Do(func() {
		envProxyFuncValue = httpproxy.FromEnvironment().ProxyFunc()
	})
	return envProxyFuncValue(req.URL)
}

// noRedirect report 3xx responses as they are
func noRedirect(req *http.Request, via []*http.Request) error {
	return http.ErrUseLastResponse
}

// HTTPClientWithTransport set the transport of the client
func HTTPClientWithTransport(transport *http.Transport) HTTPClientOption {
	return func(c *HTTPClient) {
		c.transport = transport
		c.client.Transport = transport
	}
}

// HTTPClientWithClient replace the underlying http.Client
func HTTPClientWithClient(client *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// HTTPClientWithTimeout set the whole request timeout
func HTTPClientWithTimeout(timeout time.Duration) HTTPClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = timeout
	}
}

// HTTPClientWithTLSConfig set tls configure for the client
func HTTPClientWithTLSConfig(tls *tls.Config) HTTPClientOption {
	return func(c *HTTPClient) {
		c.transport.TLSClientConfig = tls
	}
}

// HTTPClientWithH2 force attempt http2
func HTTPClientWithH2(h2 bool) HTTPClientOption {
	return func(c *HTTPClient) {
		c.transport.ForceAttemptHTTP2 = h2
	}
}

// HTTPClientWithRateLimit set requests per second.
// See https://github.com/uber-go/ratelimit
func HTTPClientWithRateLimit(rate int) HTTPClientOption {
	return func(c *HTTPClient) {
		if rate <= 0 {
			c.RateLimiter = ratelimit.NewUnlimited()
			return
		}
		c.RateLimiter = ratelimit.New(rate)
	}
}

// NewHTTPClient get a new http client
func NewHTTPClient(opts ...HTTPClientOption) *HTTPClient {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: false,
		},
		Proxy: proxyFunc,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     false,
		MaxIdleConns:          256,
		IdleConnTimeout:       60 * time.Second,
		TLSHandshakeTimeout:   60 * time.Second,
		ExpectContinueTimeout: 60 * time.Second,
		MaxIdleConnsPerHost:   512,
	}
	client := &HTTPClient{
		transport: transport,
		client: &http.Client{
			Transport:     transport,
			CheckRedirect: noRedirect,
		},
		RateLimiter: ratelimit.NewUnlimited(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// NewHTTPClientFromSettings build the client from the http settings section
func NewHTTPClientFromSettings(settings *HTTPSettings) *HTTPClient {
	client := NewHTTPClient(
		HTTPClientWithTimeout(settings.Timeout),
		HTTPClientWithH2(settings.H2),
		HTTPClientWithRateLimit(settings.RateLimit),
		HTTPClientWithTLSConfig(&tls.Config{InsecureSkipVerify: settings.Insecure}),
	)
	if settings.MaxIdleConns > 0 {
		client.transport.MaxIdleConns = settings.MaxIdleConns
	}
	return client
}

// Do send the request, the body is left to the caller
func (c *HTTPClient) Do(ctx context.Context, req *Request) (*StreamResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URI, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}
	netLog.WithField("request_id", req.ID).Debugf("Downloading %s", req.URI)
	c.RateLimiter.Take()

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	return &StreamResponse{
		Status: resp.StatusCode,
		Header: flattenHeader(resp.Header),
		Body:   resp.Body,
	}, nil
}

// flattenHeader lower-case the names and join repeated values
func flattenHeader(header http.Header) map[string]string {
	flat := make(map[string]string, len(header))
	for k, v := range header {
		flat[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	return flat
}
