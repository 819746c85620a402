package collector

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const userAgent = "BitcoinHindsight/1.0"

// newRESTClient builds the HTTP client shared by the remote fetchers.
// Requests are never retried.
func newRESTClient(timeout time.Duration, proxyURL string) *resty.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return client
}
