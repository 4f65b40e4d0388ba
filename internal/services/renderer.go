package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// Default timings for the rendered mode
const (
	DefaultNavigationTimeout = 60 * time.Second
	DefaultSettleDelay       = 2500 * time.Millisecond
)

// visibleTextScript reads what a visitor would actually see on the page
const visibleTextScript = `document.body ? document.body.innerText : ""`

// Browser is one launched headless browser process
type Browser interface {
	// Render navigates to url and returns the visible page text once it has settled
	Render(ctx context.Context, url string) (string, error)
	Close() error
}

// BrowserLauncher starts a browser for a single fetch
type BrowserLauncher func(ctx context.Context) (Browser, error)

// RenderedFetcher reads the client-side rendered page through a headless browser.
// A browser is launched per fetch and always closed before Fetch returns.
type RenderedFetcher struct {
	launch BrowserLauncher
	logger zerolog.Logger
}

// NewRenderedFetcher creates a fetcher around a browser launcher
func NewRenderedFetcher(launch BrowserLauncher, logger zerolog.Logger) *RenderedFetcher {
	return &RenderedFetcher{launch: launch, logger: logger}
}

// Fetch implements PageSource
func (f *RenderedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}

	browser, err := f.launch(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil {
			f.logger.Warn().Err(cerr).Msg("browser did not close cleanly")
		}
	}()

	return browser.Render(ctx, url)
}

// ChromeOptions configures the chromedp-backed browser
type ChromeOptions struct {
	ExecPath          string // empty means look up chrome on PATH
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
	NoSandbox         bool // required inside Lambda and most containers
}

// ChromeLauncher returns a launcher that starts headless Chrome via chromedp
func ChromeLauncher(opts ChromeOptions) BrowserLauncher {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = DefaultNavigationTimeout
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}

	return func(ctx context.Context) (Browser, error) {
		allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.UserAgent(DesktopUserAgent),
			chromedp.Flag("lang", "en-CA"),
			chromedp.DisableGPU,
		)
		if opts.ExecPath != "" {
			allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
		}
		if opts.NoSandbox {
			allocOpts = append(allocOpts, chromedp.NoSandbox)
		}

		allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
		browserCtx, browserCancel := chromedp.NewContext(allocCtx)

		browser := &chromeBrowser{
			ctx:         browserCtx,
			cancel:      browserCancel,
			allocCancel: allocCancel,
			opts:        opts,
		}

		// An empty Run starts the browser process and opens the first tab
		if err := chromedp.Run(browserCtx); err != nil {
			_ = browser.Close()
			return nil, err
		}

		return browser, nil
	}
}

type chromeBrowser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        ChromeOptions
	closeOnce   sync.Once
}

func (b *chromeBrowser) Render(ctx context.Context, url string) (string, error) {
	runCtx, cancel := context.WithCancel(b.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	idle := make(chan struct{}, 1)
	chromedp.ListenTarget(runCtx, func(ev interface{}) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	})

	navCtx, navCancel := context.WithTimeout(runCtx, b.opts.NavigationTimeout)
	defer navCancel()

	resp, err := chromedp.RunResponse(navCtx, chromedp.Navigate(url))
	if err != nil {
		return "", fmt.Errorf("navigation failed: %w", err)
	}
	if resp != nil && (resp.Status < 200 || resp.Status > 299) {
		return "", &UpstreamStatusError{StatusCode: int(resp.Status)}
	}

	select {
	case <-idle:
	case <-navCtx.Done():
		return "", fmt.Errorf("waiting for network idle: %w", navCtx.Err())
	}

	var text string
	err = chromedp.Run(runCtx,
		chromedp.Sleep(b.opts.SettleDelay),
		chromedp.Evaluate(visibleTextScript, &text),
	)
	if err != nil {
		return "", fmt.Errorf("failed to read rendered text: %w", err)
	}

	return text, nil
}

func (b *chromeBrowser) Close() error {
	var err error
	b.closeOnce.Do(func() {
		err = chromedp.Cancel(b.ctx)
		b.cancel()
		b.allocCancel()
	})
	return err
}
