// Package injection builds the script a dApp webview window is created
// with: the provider bridge (EIP-1193 `window.ethereum` plus EIP-6963
// announcement) that runs before any page script and before CSP applies.
//
// The page-side script itself never calls a host API directly — it only
// posts messages via `window.postMessage`, matching the teacher's own
// posture (see pkg/aerr) of keeping untrusted input at arm's length from
// anything privileged. This package also defines the envelope types and
// rendering helpers the host side (internal/dappwindow) uses to deliver
// responses and events back into that same page, since many webview hosts
// only expose "evaluate this JS string in the window" rather than a native
// postMessage API.
package injection

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed provider.js
var providerScript string

// BuildInitScript composes the webview initialization script a dApp
// window is created with, per the lifecycle steps in dappwindow: define
// the two globals the provider script reads, then inline the provider
// script itself so it executes immediately afterward, in the same
// injection pass.
func BuildInitScript(windowLabel, origin string) string {
	return fmt.Sprintf(
		"window.__WALLET_WINDOW_LABEL__ = %s;\nwindow.__WALLET_ORIGIN__ = %s;\n%s",
		jsString(windowLabel), jsString(origin), providerScript,
	)
}

func jsString(s string) string {
	// encoding/json's string escaping produces a valid JS string literal
	// for anything that can appear in a window label or an origin URL.
	b, _ := json.Marshal(s)
	return string(b)
}

// HostRequest is the shape of the postMessage provider.js's hostInvoke
// sends toward the privileged side for every request(...) call the page
// makes.
type HostRequest struct {
	ID          string          `json:"id"`
	WindowLabel string          `json:"windowLabel"`
	Origin      string          `json:"origin"`
	Method      string          `json:"method"`
	Params      json.RawMessage `json:"params"`
}

// ProviderError is the EIP-1193 {code, message} shape a page's pending
// request() Promise rejects with.
type ProviderError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type responseEnvelope struct {
	Aurum     bool            `json:"__aurum"`
	Direction string          `json:"direction"`
	Kind      string          `json:"kind"`
	ID        string          `json:"id"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     *ProviderError  `json:"error,omitempty"`
}

type eventEnvelope struct {
	Aurum     bool            `json:"__aurum"`
	Direction string          `json:"direction"`
	Kind      string          `json:"kind"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
}

// BuildPostMessageScript renders a JS snippet that posts payload into the
// window exactly as provider.js's message listener expects
// (direction: "fromHost"). Hosts capable of posting structured messages
// directly may skip this and deliver the envelope value as-is.
func BuildPostMessageScript(payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling postMessage payload: %w", err)
	}
	return fmt.Sprintf("window.postMessage(%s, '*');", data), nil
}

// BuildResponseScript renders the script that resolves or rejects the
// page's pending request() call for id. Exactly one of result/providerErr
// should be non-nil.
func BuildResponseScript(id string, result json.RawMessage, providerErr *ProviderError) (string, error) {
	return BuildPostMessageScript(responseEnvelope{
		Aurum: true, Direction: "fromHost", Kind: "response",
		ID: id, Result: result, Error: providerErr,
	})
}

// BuildEventScript renders the script that emits a provider event
// (accountsChanged, chainChanged, connect, disconnect) into the page
// without a matching request.
func BuildEventScript(name string, data json.RawMessage) (string, error) {
	return BuildPostMessageScript(eventEnvelope{
		Aurum: true, Direction: "fromHost", Kind: "event",
		Name: name, Data: data,
	})
}
