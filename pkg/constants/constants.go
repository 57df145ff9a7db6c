// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package constants

const (
	// DefaultAuthURL is Google's OAuth2 consent page
	DefaultAuthURL = "https://accounts.google.com/o/oauth2/v2/auth"

	// DefaultTokenURL is Google's OAuth2 token endpoint
	DefaultTokenURL = "https://oauth2.googleapis.com/token"

	// GoogleIssuer is the OIDC issuer for Google accounts
	GoogleIssuer = "https://accounts.google.com"

	// DefaultTasksURL is the Google Tasks API base URL
	DefaultTasksURL = "https://tasks.googleapis.com/tasks/v1/"

	// EnvPrefix prefixes every environment variable read by tasklink
	EnvPrefix = "TASKLINK"
)
