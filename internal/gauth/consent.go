// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Flow runs the installed-app consent flow: it listens on a loopback port,
// prints the consent URL, waits for the redirect carrying the authorization
// code, and exchanges it for a token.
type Flow struct {
	// Out receives the consent URL.
	Out io.Writer

	// Addr is the listen address (default 127.0.0.1:0).
	Addr string

	// Timeout bounds the wait for the redirect (default 5m).
	Timeout time.Duration

	// OnURL, when set, is called with the consent URL after it is printed.
	OnURL func(url string)
}

type callbackResult struct {
	code string
	err  error
}

// Run performs the flow and returns the exchanged token.
func (f *Flow) Run(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	addr := f.Addr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	out := f.Out
	if out == nil {
		out = io.Discard
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("starting callback listener: %w", err)
	}

	c := *conf
	c.RedirectURL = "http://" + ln.Addr().String() + "/"
	state := uuid.NewString()

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go srv.Serve(ln)
	defer srv.Close()

	url := c.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(out, "Open this URL in a browser to authorize access:\n\n  %s\n\n", url)
	if f.OnURL != nil {
		f.OnURL(url)
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var res callbackResult
	select {
	case res = <-results:
	case <-waitCtx.Done():
		return nil, fmt.Errorf("waiting for authorization: %w", waitCtx.Err())
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := c.Exchange(ctx, res.code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	fmt.Fprintln(out, "Authorization complete.")
	return tok, nil
}

// callbackHandler accepts the first redirect whose state matches. Later
// requests are answered but ignored.
func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "invalid state", http.StatusBadRequest)
			return
		}

		var res callbackResult
		switch {
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("code") == "":
			res.err = errors.New("authorization response carried no code")
		default:
			res.code = q.Get("code")
		}

		select {
		case results <- res:
		default:
		}
		if res.err != nil {
			http.Error(w, res.err.Error(), http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Authorization received. You can close this window.")
	})
}
