// Package dappwindow implements the dApp window lifecycle (§4.P): given
// a URL, it validates the scheme, mints a process-unique window_label,
// composes the initialization script the webview host must create the
// window with, and pre-seeds an auto-approved session so the page can
// call eth_requestAccounts and immediately see the active account with
// no approval prompt.
//
// It never creates an actual OS window itself — that's WindowHost, an
// explicitly excluded external collaborator (spec.md §6: "native
// webview host — excluded; assume a WindowHost interface"). Grounded on
// the teacher's internal/cli/receive_qr_test.go pattern of depending on
// a narrow interface for an external rendering surface rather than a
// concrete library, generalized from QR rendering to webview creation.
package dappwindow

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/aurumlabs/aurum-core/internal/appstate"
	"github.com/aurumlabs/aurum-core/internal/injection"
	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

// WindowHost creates the native webview window. Implementations live
// outside this module (the desktop shell); this package only ever
// calls CreateWindow once, synchronously, per Open.
type WindowHost interface {
	// CreateWindow opens a webview window at targetURL with initScript
	// run before any page script and before CSP applies. windowLabel
	// identifies the window for subsequent IPC addressing.
	CreateWindow(windowLabel, targetURL, initScript string) error
}

// Opener opens dApp windows against a WindowHost and the central state.
type Opener struct {
	State *appstate.State
	Host  WindowHost
}

// New creates an Opener.
func New(state *appstate.State, host WindowHost) *Opener {
	return &Opener{State: state, Host: host}
}

// OpenedWindow describes a newly created dApp window.
type OpenedWindow struct {
	WindowLabel string
	Origin      string
}

// Open implements open_dapp_window(url): validates the URL, mints a
// window_label, creates the webview window with the provider injection
// script planted, and pre-seeds an auto-approved session for the
// active account. Failure modes: ErrInvalidURL, ErrNoActiveAccount,
// ErrWindowCreationFailed.
func (o *Opener) Open(targetURL string) (*OpenedWindow, error) {
	origin, err := parseOrigin(targetURL)
	if err != nil {
		return nil, err
	}

	account, err := o.State.ActiveAccount()
	if err != nil {
		return nil, err
	}

	windowLabel := uuid.NewString()
	initScript := injection.BuildInitScript(windowLabel, origin)

	if err := o.Host.CreateWindow(windowLabel, targetURL, initScript); err != nil {
		return nil, aerr.Wrap(aerr.ErrWindowCreationFailed, "creating dapp window: %v", err)
	}

	o.State.Sessions.CreateSession(windowLabel, origin, []string{account}, true)

	return &OpenedWindow{WindowLabel: windowLabel, Origin: origin}, nil
}

// Close tears down every session belonging to windowLabel and resolves
// its pending approval requests with Disconnected. The caller (the
// desktop shell) is responsible for destroying the underlying webview
// window itself; this only clears the wallet-side state a closed window
// leaves behind.
func (o *Opener) Close(windowLabel string) {
	o.State.Sessions.RemoveAllForWindow(windowLabel)
	o.State.Approvals.RemoveAllForWindow(windowLabel)
}

// parseOrigin validates targetURL's scheme and returns its origin
// (scheme://host[:port], no path).
func parseOrigin(targetURL string) (string, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return "", aerr.WithDetails(aerr.ErrInvalidURL, map[string]string{"url": targetURL})
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", aerr.WithDetails(aerr.ErrInvalidURL, map[string]string{"url": targetURL, "reason": "scheme must be http or https"})
	}
	if parsed.Host == "" {
		return "", aerr.WithDetails(aerr.ErrInvalidURL, map[string]string{"url": targetURL, "reason": "missing host"})
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}
