// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package auth

import (
	"errors"
	"fmt"
	"strings"
)

// AuthError represents authentication-related errors
type AuthError struct {
	Code    ErrorCode
	Message string
	// Status is the upstream HTTP status, 0 when the error did not come from an HTTP response.
	Status int
	// Detail is provider-supplied text kept verbatim: the token endpoint
	// response body, or the redirect's error parameter.
	Detail string
	Cause  error
}

type ErrorCode int

const (
	ErrUnknown ErrorCode = iota
	ErrBind
	ErrBrowserLaunch
	ErrAccept
	ErrCancelled
	ErrCodeMissing
	ErrStateMismatch
	ErrProviderRejected
	ErrNetwork
	ErrDecode
	ErrStoreNotFound
	ErrStore
	ErrConfig
)

var codeNames = map[ErrorCode]string{
	ErrUnknown:          "unknown",
	ErrBind:             "bind",
	ErrBrowserLaunch:    "browser_launch",
	ErrAccept:           "accept",
	ErrCancelled:        "cancelled",
	ErrCodeMissing:      "code_missing",
	ErrStateMismatch:    "state_mismatch",
	ErrProviderRejected: "provider_rejected",
	ErrNetwork:          "network",
	ErrDecode:           "decode",
	ErrStoreNotFound:    "store_not_found",
	ErrStore:            "store",
	ErrConfig:           "config",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

func (e *AuthError) Error() string {
	msg := fmt.Sprintf("auth error [%s]: %s", e.Code, e.Message)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

func NewAuthError(code ErrorCode, message string) *AuthError {
	return &AuthError{Code: code, Message: message}
}

func NewAuthErrorWithCause(code ErrorCode, message string, cause error) *AuthError {
	return &AuthError{Code: code, Message: message, Cause: cause}
}

// NewProviderError records a rejection by the identity provider. status is 0
// for rejections delivered through the browser redirect.
func NewProviderError(message string, status int, detail string) *AuthError {
	return &AuthError{Code: ErrProviderRejected, Message: message, Status: status, Detail: detail}
}

// CodeOf returns the ErrorCode carried by err, or ErrUnknown when err is not
// (and does not wrap) an *AuthError.
func CodeOf(err error) ErrorCode {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return ErrUnknown
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// MessageCategory groups error codes by what the user should do next.
type MessageCategory int

const (
	CategoryRetry MessageCategory = iota
	CategoryCredentials
	CategorySignIn
)

func (c MessageCategory) String() string {
	switch c {
	case CategoryCredentials:
		return "check credentials"
	case CategorySignIn:
		return "sign in again"
	default:
		return "try again"
	}
}

// Category maps err onto the message category shown to the user.
func Category(err error) MessageCategory {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Code == ErrProviderRejected {
		// a revoked or expired refresh token cannot be fixed by retrying
		if strings.Contains(authErr.Detail, "invalid_grant") {
			return CategorySignIn
		}
		return CategoryCredentials
	}

	switch CodeOf(err) {
	case ErrConfig:
		return CategoryCredentials
	case ErrStoreNotFound, ErrCodeMissing, ErrStateMismatch:
		return CategorySignIn
	default:
		return CategoryRetry
	}
}
