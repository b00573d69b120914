package client

import (
	"context"
	"fmt"
	"time"

	"ymlfeed/report/internal/config"
	"ymlfeed/report/internal/proxy"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

type FeedClient interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type feedClient struct {
	rl            ratelimit.Limiter
	config        config.FeedConfig
	httpClient    *resty.Client
	proxySupplier proxy.Supplier
	timeout       time.Duration
}

func NewFeedClient(cfg config.FeedConfig, proxySupplier proxy.Supplier) FeedClient {
	timeout := time.Duration(cfg.Timeout) * time.Second

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/xml,text/xml;q=0.9,*/*;q=0.8")

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using initial proxy: %s", proxyURL)
		}
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &feedClient{
		rl:            rl,
		config:        cfg,
		httpClient:    client,
		proxySupplier: proxySupplier,
		timeout:       timeout,
	}
}

// Fetch downloads the raw feed. When the request fails and another proxy is
// available, the client switches to it and tries once more.
func (c *feedClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, err := c.get(ctx, url)
	if err == nil {
		return body, nil
	}

	if ctx.Err() != nil || c.proxySupplier == nil || c.proxySupplier.Len() < 2 {
		return nil, err
	}

	newProxy := c.proxySupplier.Get()
	log.Warnf("🔄 Fetch failed (%v), switching to proxy %s", err, newProxy)
	c.httpClient.SetProxy(newProxy)

	body, retryErr := c.get(ctx, url)
	if retryErr != nil {
		return nil, fmt.Errorf("retry with new proxy failed: %w", retryErr)
	}

	log.Infof("✅ Retry successful with new proxy")
	return body, nil
}

func (c *feedClient) get(ctx context.Context, url string) ([]byte, error) {
	c.rl.Take()

	// The retry budget of resty runs inside this deadline
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout*time.Duration(c.config.MaxRetries+1))
	defer cancel()

	resp, err := c.httpClient.R().
		SetContext(reqCtx).
		Get(url)

	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	body := []byte(resp.String())
	log.Debugf("Fetched %d bytes from %s", len(body), url)
	return body, nil
}
