package share

import (
	"net/http"
	"time"
)

func init() {
	tr := &http.Transport{
		MaxConnsPerHost:       0,
		MaxIdleConns:          0,
		MaxIdleConnsPerHost:   16,
		ResponseHeaderTimeout: 10 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		IdleConnTimeout:       30 * time.Second,
		ExpectContinueTimeout: 30 * time.Second,
	}
	http.DefaultClient.Timeout = 1 * time.Minute
	http.DefaultClient.Transport = tr
}
