// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package auth

import (
	"bufio"
	"context"
	"net"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// CallbackIOTimeout bounds reading the redirect request and writing the reply
// once a connection has been accepted. Accept itself is not bounded.
const CallbackIOTimeout = 10 * time.Second

// AcceptCallback waits for the single browser redirect on ln and extracts the
// authorization code from it. ln is always closed before returning.
//
// Cancelling ctx closes the listener, which is the only way to abandon a
// flow whose browser tab was closed by the user.
func AcceptCallback(ctx context.Context, ln net.Listener) (*CallbackResult, error) {
	defer func() {
		_ = ln.Close()
	}()

	resCh := make(chan callbackResult, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			resCh <- callbackResult{Error: NewAuthErrorWithCause(ErrAccept, "failed to accept redirect connection", err)}
			return
		}
		result, err := serveCallback(conn)
		resCh <- callbackResult{Result: result, Error: err}
	}()

	select {
	case res := <-resCh:
		return res.Result, res.Error
	case <-ctx.Done():
		_ = ln.Close()
		return nil, NewAuthErrorWithCause(ErrCancelled, "sign-in cancelled before the redirect arrived", ctx.Err())
	}
}

// serveCallback reads the request line and headers from conn, replies with the
// confirmation page and closes conn. The request body is never read.
func serveCallback(conn net.Conn) (*CallbackResult, error) {
	defer func() {
		_ = conn.Close()
	}()
	_ = conn.SetDeadline(time.Now().Add(CallbackIOTimeout))

	result, err := readCallback(bufio.NewReader(conn))

	w := bufio.NewWriter(conn)
	_, _ = w.Write(callbackResponse(err == nil))
	_ = w.Flush()
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.CloseWrite()
		_ = tcp.CloseRead()
	}

	return result, err
}

func readCallback(r *bufio.Reader) (*CallbackResult, error) {
	tp := textproto.NewReader(r)
	requestLine, err := tp.ReadLine()
	if err != nil || requestLine == "" {
		return nil, NewAuthError(ErrCodeMissing, "no request received on callback")
	}

	// Drain headers up to the blank line. A truncated or malformed header
	// block does not matter, only the request line carries the code.
	_, _ = tp.ReadMIMEHeader()

	return ParseRequestLine(requestLine)
}

// ParseRequestLine extracts the OAuth redirect parameters from an HTTP
// request line such as "GET /callback?code=abc HTTP/1.1".
//
// A code wins over an error parameter. An error parameter without a code is
// a provider rejection. Anything else is ErrCodeMissing.
func ParseRequestLine(line string) (*CallbackResult, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, NewAuthError(ErrCodeMissing, "malformed callback request line")
	}

	_, query, found := strings.Cut(fields[1], "?")
	if !found {
		return nil, NewAuthError(ErrCodeMissing, "no ?code in callback")
	}

	result := &CallbackResult{}
	for _, kv := range strings.Split(query, "&") {
		key, raw, _ := strings.Cut(kv, "=")
		value, err := url.PathUnescape(raw)
		if err != nil {
			continue
		}
		switch key {
		case "code":
			if result.Code == "" {
				result.Code = value
			}
		case "state":
			result.State = value
		case "error":
			result.Error = value
		case "error_description":
			result.ErrorDescription = value
		}
	}

	if result.Code != "" {
		return result, nil
	}
	if result.IsError() {
		message := "authorization rejected by provider"
		if result.ErrorDescription != "" {
			message += ": " + result.ErrorDescription
		}
		return result, NewProviderError(message, 0, result.Error)
	}
	return nil, NewAuthError(ErrCodeMissing, "no ?code in callback")
}
