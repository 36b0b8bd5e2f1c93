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
	"os"
	"path"
	"runtime"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Settings interface {
	// GetValue get the value of a settings key
	GetValue(key string) (interface{}, error)
}

// HTTPSettings network client settings, read from the http section
type HTTPSettings struct {
	// Timeout whole request timeout, zero means no timeout
	Timeout time.Duration `mapstructure:"timeout"`
	// H2 force attempt http2
	H2 bool `mapstructure:"h2"`
	// Insecure skip tls certificate verification
	Insecure bool `mapstructure:"insecure"`
	// MaxIdleConns idle connections kept in the pool
	MaxIdleConns int `mapstructure:"max_idle_conns"`
	// RateLimit requests per second, zero means unlimited
	RateLimit int `mapstructure:"rate_limit"`
}

var httpSettingKeys = []string{"timeout", "h2", "insecure", "max_idle_conns", "rate_limit"}

type Configuration struct {
	*viper.Viper
}

var onceConfig sync.Once
var Config *Configuration = nil

func newConfig() {
	onceConfig.Do(func() {
		Config = &Configuration{
			viper.New(),
		}
		Config.setDefaults()
	})

}

func (c *Configuration) setDefaults() {
	c.SetDefault("log.level", "info")
	c.SetDefault("mime.enabled", true)
	c.SetDefault("fs.root", "")
	c.SetDefault("http.timeout", 0)
	c.SetDefault("http.h2", false)
	c.SetDefault("http.insecure", false)
	c.SetDefault("http.max_idle_conns", 256)
	c.SetDefault("http.rate_limit", 0)
}

func (c *Configuration) GetValue(key string) (interface{}, error) {
	value := c.Get(key)
	return value, nil
}

// HTTP decode the http section
func (c *Configuration) HTTP() (*HTTPSettings, error) {
	settings := &HTTPSettings{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           settings,
	})
	if err != nil {
		return nil, err
	}
	src := map[string]interface{}{}
	for _, key := range httpSettingKeys {
		src[key] = c.Get("http." + key)
	}
	if err := decoder.Decode(src); err != nil {
		return nil, err
	}
	return settings, nil
}

func (c *Configuration) load(dir string) bool {
	c.AddConfigPath(dir)
	c.SetConfigName("settings")
	c.SetConfigType("yaml")
	readErr := c.ReadInConfig()
	return readErr == nil
}

func initSettings() {
	newConfig()
	wd, _ := os.Getwd()
	var abPath string

	_, filename, _, ok := runtime.Caller(0)
	if ok {
		abPath = path.Dir(filename)

	}
	Config.load(wd)
	Config.load(abPath)

}
