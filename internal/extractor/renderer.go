package extractor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"internship-watcher/helpers"
)

// Renderer loads a page and returns its markup after scripts have run
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
}

// ChromeRenderer renders pages in a headless browser. The target page
// populates its listings client-side, so plain fetches return an empty shell.
type ChromeRenderer struct {
	Timeout    time.Duration
	SettleWait time.Duration
}

// NewChromeRenderer creates a renderer with the given load timeout and
// post-load settle delay
func NewChromeRenderer(timeout, settleWait time.Duration) *ChromeRenderer {
	return &ChromeRenderer{
		Timeout:    timeout,
		SettleWait: settleWait,
	}
}

// Render navigates to the page, waits for the document to become ready plus
// a settle delay for script-driven content, and returns the live DOM markup
func (r *ChromeRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if bin := findChromeBinary(); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.Timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(r.SettleWait),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp render: %w", err)
	}

	return html, nil
}

// StaticRenderer fetches the page markup without executing scripts. Useful
// for server-rendered pages and for tests against a local fixture server.
type StaticRenderer struct{}

// Render fetches the page body with browser-like headers
func (StaticRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	body, err := helpers.FetchWithBrowserHeaders(pageURL)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read page body: %w", err)
	}

	return string(data), nil
}

// findChromeBinary locates a Chrome/Chromium binary
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
