package platform

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Age-gate handling constants
const (
	// ageGateMarker appears (case-insensitively) in yt-dlp output when the
	// source requires an authenticated age confirmation.
	ageGateMarker = "sign in to confirm your age"

	// CookieSourceFlag asks yt-dlp to read cookies from a local browser.
	CookieSourceFlag = "--cookies-from-browser"
)

var (
	retryNoticeOnce sync.Once
	retryNoticeFn   func()
	retryNoticeMu   sync.Mutex
)

// SetAgeGateNotice registers the callback fired the first time the cookie
// retry path engages. The notice fires at most once per app lifetime.
func SetAgeGateNotice(fn func()) {
	retryNoticeMu.Lock()
	defer retryNoticeMu.Unlock()
	retryNoticeFn = fn
}

func fireAgeGateNotice() {
	retryNoticeOnce.Do(func() {
		retryNoticeMu.Lock()
		fn := retryNoticeFn
		retryNoticeMu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

// ContainsAgeGateMarker reports whether subprocess output carries the
// age-gate failure signature.
func ContainsAgeGateMarker(output string) bool {
	return strings.Contains(strings.ToLower(output), ageGateMarker)
}

// WithBrowserCookies returns the argument list with the cookie-source flag
// and its value inserted immediately after the program name. The insertion
// is idempotent: an argv that already carries the flag is returned as is.
func WithBrowserCookies(args []string, browser string) []string {
	if len(args) == 0 || browser == "" {
		return args
	}
	for _, a := range args {
		if a == CookieSourceFlag {
			return args
		}
	}
	out := make([]string, 0, len(args)+2)
	out = append(out, args[0], CookieSourceFlag, browser)
	out = append(out, args[1:]...)
	return out
}

// AgeGateRunner runs a subprocess while streaming its merged stdout/stderr
// line by line, and re-issues the command once with browser cookies when
// the first run fails with the age-gate signature. The UI thread may call
// Terminate concurrently; the worker owns everything else.
type AgeGateRunner struct {
	// CookieBrowser is the browser to source cookies from on retry.
	// An empty value disables the retry path.
	CookieBrowser string

	// OnRetry fires just before the cookie retry invocation starts, so
	// callers can re-arm per-invocation state such as progress tracking.
	OnRetry func()

	mu        sync.Mutex
	cmd       *exec.Cmd
	cancelled bool
}

// Run executes args, feeding every output line to onLine. On an age-gated
// non-zero exit (and only when the job was not cancelled) it retries once
// with the cookie-source flag inserted. The returned error is that of
// whichever invocation ran last; nil means exit code 0.
func (r *AgeGateRunner) Run(ctx context.Context, args []string, onLine func(string)) error {
	sawMarker, err := r.runOnce(ctx, args, onLine)
	if err == nil {
		return nil
	}
	if r.WasCancelled() || !sawMarker || r.CookieBrowser == "" {
		return err
	}
	retryArgs := WithBrowserCookies(args, r.CookieBrowser)
	if len(retryArgs) == len(args) {
		// Cookies were already part of the command; nothing left to try.
		return err
	}
	fireAgeGateNotice()
	if r.OnRetry != nil {
		r.OnRetry()
	}
	_, err = r.runOnce(ctx, retryArgs, onLine)
	return err
}

func (r *AgeGateRunner) runOnce(ctx context.Context, args []string, onLine func(string)) (bool, error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	pr, pw, err := os.Pipe()
	if err != nil {
		return false, err
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return false, err
	}
	r.setCmd(cmd)

	// The child holds its own copy of the write end; closing ours makes
	// the read loop end at process exit.
	pw.Close()

	sawMarker := false
	scanner := bufio.NewScanner(pr)
	for scanner.Scan() {
		line := scanner.Text()
		if !sawMarker && ContainsAgeGateMarker(line) {
			sawMarker = true
		}
		if onLine != nil {
			onLine(line)
		}
	}
	pr.Close()

	waitErr := cmd.Wait()
	r.setCmd(nil)
	return sawMarker, waitErr
}

// Terminate flags the job as cancelled and kills the tracked subprocess,
// unblocking the worker's read loop.
func (r *AgeGateRunner) Terminate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = true
	if r.cmd != nil && r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
	}
}

// WasCancelled reports whether Terminate was called.
func (r *AgeGateRunner) WasCancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

func (r *AgeGateRunner) setCmd(cmd *exec.Cmd) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmd = cmd
	if cmd != nil && r.cancelled && cmd.Process != nil {
		// Cancelled between invocations; stop the fresh process too.
		_ = cmd.Process.Kill()
	}
}
