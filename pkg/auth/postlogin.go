// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package auth

import "fmt"

const pageStyle = `
    <style>
      body {
        font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
        display: flex;
        justify-content: center;
        align-items: center;
        height: 100vh;
        margin: 0;
        background-color: #f5f5f5;
      }
      .container {
        text-align: center;
        padding: 2rem;
        background: white;
        border-radius: 8px;
        box-shadow: 0 2px 8px rgba(0,0,0,0.1);
      }
      h1 {
        color: #2d3748;
        margin-bottom: 1rem;
      }
      p {
        color: #4a5568;
      }
    </style>`

func getSuccessHtml() string {
	return page("Signed in", "Signed in successfully", "You can close this window and return to the app.")
}

// The failure page never echoes query parameters back into the document.
func getFailureHtml() string {
	return page("Sign-in incomplete", "Sign-in was not completed", "You can close this window and return to the app to try again.")
}

func page(title, heading, text string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head>
    <title>%s</title>%s
  </head>
  <body>
    <div class="container">
      <h1>%s</h1>
      <p>%s</p>
    </div>
  </body>
</html>
`, title, pageStyle, heading, text)
}

// callbackResponse renders the complete HTTP/1.1 response sent to the browser.
// The status is always 200 so the tab lands on a terminal page either way.
func callbackResponse(success bool) []byte {
	body := getFailureHtml()
	if success {
		body = getSuccessHtml()
	}
	return []byte(fmt.Sprintf("HTTP/1.1 200 OK\r\n"+
		"Content-Type: text/html; charset=utf-8\r\n"+
		"Content-Length: %d\r\n"+
		"Cache-Control: no-store\r\n"+
		"X-Content-Type-Options: nosniff\r\n"+
		"Referrer-Policy: no-referrer\r\n"+
		"Connection: close\r\n"+
		"\r\n%s", len(body), body))
}
