// Package browser implements plate and price providers that drive a
// headless Chromium via rod against Chilean automotive sites.
package browser

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// Options configure the shared browser session.
type Options struct {
	Headless    bool
	BinPath     string
	UserAgent   string
	PageTimeout time.Duration
	// SettleDelay is the wait after load for client-side rendering.
	SettleDelay time.Duration
}

// Session owns one Chromium instance shared by all browser providers.
// It is safe for concurrent use; each fetch opens its own page.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	opts     Options
	logger   logging.Logger
}

// NewSession launches Chromium and connects to it.
func NewSession(opts Options, logger logging.Logger) (*Session, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = 30 * time.Second
	}

	l := launcher.New().
		Headless(opts.Headless).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled").
		Set("window-size", "1920,1080")
	if opts.BinPath != "" {
		l = l.Bin(opts.BinPath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeProviderUnavailable, "launch browser")
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, errors.Wrap(err, errors.ErrCodeProviderUnavailable, "connect to browser")
	}

	return &Session{browser: b, launcher: l, opts: opts, logger: logger.Named("browser")}, nil
}

// Close tears down the browser process.
func (s *Session) Close() error {
	err := s.browser.Close()
	s.launcher.Cleanup()
	return err
}

// openPage navigates to url in a fresh page and waits for it to settle.
// The caller must close the returned page.
func (s *Session) openPage(ctx context.Context, url string) (*rod.Page, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeProviderUnavailable, "open page")
	}

	page = page.Context(ctx).Timeout(s.opts.PageTimeout)

	if s.opts.UserAgent != "" {
		override := &proto.NetworkSetUserAgentOverride{UserAgent: s.opts.UserAgent}
		if err := page.SetUserAgent(override); err != nil {
			page.Close()
			return nil, errors.Wrap(err, errors.ErrCodeProviderUnavailable, "set user agent")
		}
	}

	if err := page.Navigate(url); err != nil {
		page.Close()
		return nil, errors.Wrap(err, errors.ErrCodeProviderUnavailable, "navigate")
	}
	if err := page.WaitLoad(); err != nil {
		page.Close()
		return nil, errors.Wrap(err, errors.ErrCodeProviderTimeout, "wait for page load")
	}
	s.settle(ctx)

	return page, nil
}

// PageText fetches url and returns the rendered text of its body.
func (s *Session) PageText(ctx context.Context, url string) (string, error) {
	page, err := s.openPage(ctx, url)
	if err != nil {
		return "", err
	}
	defer page.Close()

	body, err := page.Element("body")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeProviderParseError, "find page body")
	}
	text, err := body.Text()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeProviderParseError, "read page text")
	}

	s.logger.Debug("page fetched", logging.String("url", url), logging.Int("chars", len(text)))
	return text, nil
}

// ElementTexts fetches url and returns the text of every element matching
// the CSS selector.  No matches is not an error.
func (s *Session) ElementTexts(ctx context.Context, url, selector string) ([]string, error) {
	page, err := s.openPage(ctx, url)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	elements, err := page.Elements(selector)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeProviderParseError, "query elements")
	}

	texts := make([]string, 0, len(elements))
	for _, el := range elements {
		t, err := el.Text()
		if err != nil {
			continue
		}
		texts = append(texts, t)
	}
	return texts, nil
}

// settle sleeps for the configured delay, honoring ctx cancellation.
func (s *Session) settle(ctx context.Context) {
	if s.opts.SettleDelay <= 0 {
		return
	}
	t := time.NewTimer(s.opts.SettleDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
