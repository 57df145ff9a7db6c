// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package port

import (
	"fmt"
	"net"
	"strconv"
)

// LoopbackHost is the only address the redirect listener binds to.
const LoopbackHost = "127.0.0.1"

// CallbackPath is the path the provider redirects the browser to.
const CallbackPath = "/callback"

var listen func(network, address string) (net.Listener, error) = net.Listen

// Allocate binds a loopback TCP listener on an OS-assigned ephemeral port.
// The listener is returned open; the caller owns it and must close it.
func Allocate() (net.Listener, int, error) {
	l, err := listen("tcp", net.JoinHostPort(LoopbackHost, "0"))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to bind loopback listener: %w", err)
	}

	addr, ok := l.Addr().(*net.TCPAddr)
	if !ok || addr.Port == 0 {
		_ = l.Close()
		return nil, 0, fmt.Errorf("listener has no TCP port: %v", l.Addr())
	}
	return l, addr.Port, nil
}

// RedirectURI returns the loopback redirect URI for port.
func RedirectURI(port int) string {
	return "http://" + net.JoinHostPort(LoopbackHost, strconv.Itoa(port)) + CallbackPath
}
