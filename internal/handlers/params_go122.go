//go:build go1.22

package handlers

import "net/http"

// stdlibPathValue reads a parameter set through the net/http PathValue
// API, which exists from Go 1.22 on.
func stdlibPathValue(r *http.Request, name string) string {
	return r.PathValue(name)
}
