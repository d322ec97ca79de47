package shared

import (
	"crypto/tls"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/valyala/fasthttp"
)

// FastClient is the outbound HTTP client used for market feeds.
func FastClient(ignoreSSL bool, timeout time.Duration) *fasthttp.Client {
	client := &fasthttp.Client{
		Name:                "investmanager",
		ReadTimeout:         timeout,
		WriteTimeout:        timeout,
		MaxIdleConnDuration: time.Minute,
	}
	if ignoreSSL {
		log.Warn("SSL certificate verification disabled for market feed client")
		client.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return client
}
