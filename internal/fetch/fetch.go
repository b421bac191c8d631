// Package fetch is the HTTP layer under the probe catalog: one GET per call,
// fixed timeouts, transparent body decompression, no retries.
package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/bcoles/jira-scan/internal/core"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout applies to both the connect and the read phase.
	DefaultTimeout = 20 * time.Second
	maxBodySize    = 32 << 20
)

// Config is fixed at construction; a Client never mutates it.
type Config struct {
	Insecure       bool
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	UserAgent      string
	Proxy          string
	// RateLimit caps requests per second. Zero disables limiting.
	RateLimit float64
	Logger    logrus.FieldLogger
}

// Error is returned for every failed fetch. It carries the URL and wraps one
// of core.ErrNetworkTimeout, core.ErrNetworkError or core.ErrDecode.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("could not retrieve URL %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client implements core.Fetcher.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

// New builds a Client from cfg, filling in default timeouts and user agent.
func New(cfg Config) (*Client, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = core.UserAgent()
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: cfg.Insecure},
		DisableCompression:    true,
		MaxIdleConnsPerHost:   16,
	}
	if cfg.Proxy != "" {
		pURL, err := url.Parse(cfg.Proxy)
		if err != nil || pURL.Host == "" {
			return nil, fmt.Errorf("%w: bad proxy URL %q", core.ErrInvalidConfig, cfg.Proxy)
		}
		transport.Proxy = http.ProxyURL(pURL)
	}

	c := &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log: cfg.Logger,
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return c, nil
}

// Fetch issues a GET to rawURL and returns the decoded reply.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*core.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, c.fail(rawURL, fmt.Errorf("%w: %v", core.ErrNetworkError, err))
	}
	if u.Host == "" {
		return nil, c.fail(rawURL, fmt.Errorf("%w: missing host", core.ErrNetworkError))
	}
	c.log.Infof("Fetching %s", u)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.fail(u.String(), classify(err))
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, c.fail(u.String(), fmt.Errorf("%w: %v", core.ErrNetworkError, err))
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept-Encoding", "gzip,deflate")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(u.String(), classify(err))
	}
	defer resp.Body.Close()

	body := newIdleReader(resp.Body, c.cfg.ReadTimeout, cancel)
	raw, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	body.stop()
	if err != nil {
		if body.expired() {
			err = fmt.Errorf("%w: body read idle for %s", core.ErrNetworkTimeout, c.cfg.ReadTimeout)
		} else {
			err = classify(err)
		}
		return nil, c.fail(u.String(), err)
	}

	decoded, err := decodeBody(resp.Header.Get("Content-Encoding"), raw)
	if err != nil {
		return nil, c.fail(u.String(), fmt.Errorf("%w: %v", core.ErrDecode, err))
	}
	c.log.Infof("Received reply (%d bytes)", len(decoded))

	return &core.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       string(decoded),
	}, nil
}

func (c *Client) fail(target string, err error) error {
	if errors.Is(err, core.ErrNetworkTimeout) {
		c.log.Errorf("Could not retrieve URL %s: Timeout", target)
	} else {
		c.log.Errorf("Could not retrieve URL %s: %v", target, err)
	}
	return &Error{URL: target, Err: err}
}

func classify(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", core.ErrNetworkTimeout, err)
	}
	return fmt.Errorf("%w: %v", core.ErrNetworkError, err)
}
