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
	"time"

	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var yamlExample = []byte(`
log:
  level: "error"
mime:
  enabled: false
http:
  timeout: "5s"
  h2: true
  rate_limit: 20
`)

func newTestConfig(t *testing.T, content []byte) *Configuration {
	config := &Configuration{
		viper.New(),
	}
	config.setDefaults()
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/etc/urifetch", 0o777); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/etc/urifetch/settings.yaml", content, 0o644); err != nil {
		t.Fatal(err)
	}
	config.SetFs(fs)
	return config
}

func TestSetting(t *testing.T) {
	convey.Convey("test settings load", t, func() {
		config := newTestConfig(t, yamlExample)
		ret := config.load("/etc/urifetch")
		value, _ := config.GetValue("log.level")
		convey.So(ret, convey.ShouldBeTrue)
		convey.So(value, convey.ShouldEqual, "error")
		convey.So(config.GetBool("mime.enabled"), convey.ShouldBeFalse)

		httpSettings, err := config.HTTP()
		convey.So(err, convey.ShouldBeNil)
		convey.So(httpSettings.Timeout, convey.ShouldEqual, 5*time.Second)
		convey.So(httpSettings.H2, convey.ShouldBeTrue)
		convey.So(httpSettings.RateLimit, convey.ShouldEqual, 20)
		convey.So(httpSettings.MaxIdleConns, convey.ShouldEqual, 256)
		convey.So(httpSettings.Insecure, convey.ShouldBeFalse)
	})
	convey.Convey("test missing settings file keeps defaults", t, func() {
		config := newTestConfig(t, yamlExample)
		convey.So(config.load("/nowhere"), convey.ShouldBeFalse)
		convey.So(config.GetString("log.level"), convey.ShouldEqual, "info")
		httpSettings, err := config.HTTP()
		convey.So(err, convey.ShouldBeNil)
		convey.So(httpSettings.Timeout, convey.ShouldEqual, 0)
	})
	convey.Convey("test dispatcher from settings", t, func() {
		config := newTestConfig(t, yamlExample)
		config.load("/etc/urifetch")
		d, err := NewDispatcherFromSettings(config)
		convey.So(err, convey.ShouldBeNil)
		convey.So(d.file.mime, convey.ShouldBeNil)
		client, ok := d.network.(*HTTPClient)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(client.client.Timeout, convey.ShouldEqual, 5*time.Second)
		convey.So(client.transport.ForceAttemptHTTP2, convey.ShouldBeTrue)
	})
	convey.Convey("test invalid http settings", t, func() {
		config := newTestConfig(t, []byte("http:\n  rate_limit: \"fast\"\n"))
		config.load("/etc/urifetch")
		_, err := config.HTTP()
		convey.So(err, convey.ShouldNotBeNil)
		_, err = NewDispatcherFromSettings(config)
		convey.So(err, convey.ShouldNotBeNil)
	})
}
