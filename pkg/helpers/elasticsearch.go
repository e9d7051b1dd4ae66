package helpers

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// Transport limits sized for the post-search mirror: index writes run
// after the store write with short deadlines, so a slow node fails fast
// instead of stalling feed requests.
const (
	esDialTimeout      = 5 * time.Second
	esHeaderTimeout    = 5 * time.Second
	esIdleConnsPerHost = 10
)

// NewESClient builds the client the posts index uses, with optional basic auth.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   esIdleConnsPerHost,
			ResponseHeaderTimeout: esHeaderTimeout,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: esDialTimeout}).DialContext,
		},
	}
	return elasticsearch.NewClient(cfg)
}
