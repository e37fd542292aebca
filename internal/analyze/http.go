package analyze

import (
	"net/http"
	"net/url"
	"time"
)

// proxyFunc uses the configured proxies, falling back to the environment
func proxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// newHTTPClient builds the client used for LLM requests
func newHTTPClient(httpProxy, httpsProxy string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxyFunc(httpProxy, httpsProxy)

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
