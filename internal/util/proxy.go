package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc builds the transport proxy selector from configuration,
// falling back to the standard environment variables when unset.
// noProxy is a comma-separated list of hosts and domain suffixes that
// bypass the proxy.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	var bypass []string
	for _, entry := range strings.Split(noProxy, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			bypass = append(bypass, strings.ToLower(entry))
		}
	}

	return func(req *http.Request) (*url.URL, error) {
		host := strings.ToLower(req.URL.Hostname())
		for _, entry := range bypass {
			if host == entry || strings.HasSuffix(host, "."+entry) {
				return nil, nil
			}
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
