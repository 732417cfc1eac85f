// Package browser drives a real Chrome instance for page smoke checks.
// It wraps go-rod with guarded element lookups so a missing element degrades
// into an error result instead of a crash, and scoped release so a failed
// run never leaks a Chrome process.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// ErrElementNotFound reports a guarded lookup that found no match. Callers
// branch on it to record a failure instead of aborting the whole run.
var ErrElementNotFound = errors.New("browser: element not found")

// Session owns one Chrome instance for the duration of a run.
type Session struct {
	cfg     Config
	log     *zap.Logger
	browser *rod.Browser
}

// Launch starts Chrome (or connects to an existing instance via
// cfg.DebuggerURL) and returns a Session. Close must be called on every
// exit path once Launch succeeds.
func Launch(ctx context.Context, cfg Config, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}

	controlURL := cfg.DebuggerURL
	if controlURL == "" {
		launch := launcher.New().Headless(cfg.IsHeadless())
		if cfg.Bin != "" {
			launch = launch.Bin(cfg.Bin)
		}
		url, err := launch.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if d := cfg.SlowMotion(); d > 0 {
		browser = browser.SlowMotion(d)
	}
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	log.Debug("browser connected",
		zap.Bool("headless", cfg.IsHeadless()),
		zap.String("control_url", controlURL))

	return &Session{cfg: cfg, log: log, browser: browser}, nil
}

// Close shuts the browser down. Safe to call more than once.
func (s *Session) Close() error {
	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	s.browser = nil
	return err
}

// Page is a single open tab with the session's viewport applied.
type Page struct {
	cfg  Config
	log  *zap.Logger
	page *rod.Page
}

// OpenPage opens a new tab, applies the viewport override, navigates to url,
// and blocks until the page has loaded and network activity has settled.
func (s *Session) OpenPage(ctx context.Context, url string) (*Page, error) {
	if s.browser == nil {
		return nil, errors.New("browser not connected")
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             s.cfg.GetViewportWidth(),
		Height:            s.cfg.GetViewportHeight(),
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		s.log.Warn("failed to set viewport", zap.Error(err))
	}

	timed := page.Context(ctx).Timeout(s.cfg.NavigationTimeout())
	if err := timed.Navigate(url); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := timed.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("wait for load of %s: %w", url, err)
	}
	// Heuristic network-idle wait: the page counts as settled once the
	// render loop has been quiet for the idle window.
	if err := timed.WaitIdle(s.cfg.IdleWindow()); err != nil {
		s.log.Debug("idle wait ended early", zap.String("url", url), zap.Error(err))
	}

	return &Page{cfg: s.cfg, log: s.log, page: page}, nil
}

// Close closes the tab.
func (p *Page) Close() error {
	return p.page.Close()
}

// Title returns the document title.
func (p *Page) Title(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.Title, nil
}

// ScrollIntoView scrolls the first element matching selector into view.
// No-op when the element is absent.
func (p *Page) ScrollIntoView(ctx context.Context, selector string) error {
	has, el, err := p.page.Context(ctx).Has(selector)
	if err != nil {
		return fmt.Errorf("lookup %q: %w", selector, err)
	}
	if !has {
		p.log.Debug("scroll target absent", zap.String("selector", selector))
		return nil
	}
	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll to %q: %w", selector, err)
	}
	return nil
}

// Count returns the number of elements matching selector.
func (p *Page) Count(ctx context.Context, selector string) (int, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return 0, fmt.Errorf("query %q: %w", selector, err)
	}
	return len(els), nil
}

// Texts returns the text content of every element matching selector,
// dropping entries that are empty after trimming.
func (p *Page) Texts(ctx context.Context, selector string) ([]string, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	texts := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			p.log.Debug("text extraction failed", zap.String("selector", selector), zap.Error(err))
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			texts = append(texts, t)
		}
	}
	return texts, nil
}

// ScreenshotElement captures the bounding box of the first element matching
// selector to a PNG at path, overwriting any previous file. Returns the
// number of bytes written, or ErrElementNotFound when the element is absent.
func (p *Page) ScreenshotElement(ctx context.Context, selector, path string) (int64, error) {
	has, el, err := p.page.Context(ctx).Has(selector)
	if err != nil {
		return 0, fmt.Errorf("lookup %q: %w", selector, err)
	}
	if !has {
		return 0, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}

	bin, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return 0, fmt.Errorf("screenshot %q: %w", selector, err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create screenshot dir: %w", err)
		}
	}
	if err := os.WriteFile(path, bin, 0o644); err != nil {
		return 0, fmt.Errorf("write screenshot: %w", err)
	}
	return int64(len(bin)), nil
}

// used by WaitSettled to bound a single poll round trip
const pollEvalTimeout = 2 * time.Second
