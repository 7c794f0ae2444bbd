//go:build !go1.22

package handlers

import "net/http"

// stdlibPathValue has nothing to consult before Go 1.22: the net/http
// PathValue API does not exist in older standard libraries.
func stdlibPathValue(_ *http.Request, _ string) string {
	return ""
}
