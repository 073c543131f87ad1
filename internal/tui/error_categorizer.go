package tui

import (
	"fmt"
	"strings"

	"github.com/studiowebux/gpgdesk/internal/types"
)

// describeRequestError turns a request failure into an actionable sentence
func describeRequestError(rerr *types.RequestError) string {
	if rerr == nil {
		return ""
	}

	switch rerr.Kind {
	case types.Timeout:
		return "Request timeout - the backend took too long, try increasing timeoutSeconds in the profile"
	case types.BadURL:
		return fmt.Sprintf("Invalid URL %q - check baseUrl in the profile (http/https with a host)", rerr.URL)
	case types.BadStatus:
		return describeStatus(rerr.Status)
	case types.BadBody:
		return "Unexpected response from the backend - " + rerr.Detail
	case types.NetworkError:
		return categorizeNetworkDetail(rerr.Detail)
	}
	return "Request failed: " + rerr.Error()
}

func describeStatus(code int) string {
	switch {
	case code == 400:
		return "Bad request (400) - the backend rejected the input, check the form values"
	case code == 401 || code == 403:
		return fmt.Sprintf("Access denied (%d) - the backend refused the request", code)
	case code == 404:
		return "Not found (404) - the endpoint does not exist, check baseUrl in the profile"
	case code >= 500:
		return fmt.Sprintf("Server error (%d) - the backend failed to handle the request", code)
	}
	return fmt.Sprintf("Unexpected status %d", code)
}

// categorizeNetworkDetail maps a transport error message to a hint
func categorizeNetworkDetail(detail string) string {
	if detail == "" {
		return "Network error - the backend could not be reached"
	}

	errLower := strings.ToLower(detail)

	// Proxy errors (check before connection errors since proxy errors often contain "connection refused")
	if strings.Contains(errLower, "proxy") {
		return "Proxy connection failed - verify HTTP_PROXY/HTTPS_PROXY settings"
	}

	if strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "dial tcp: lookup") {
		return "DNS resolution failed - verify hostname is correct and network is available"
	}

	if strings.Contains(errLower, "connection refused") {
		return "Connection refused - check if the backend is running and port is correct"
	}

	if strings.Contains(errLower, "connection reset") {
		return "Connection reset by server - server may have crashed or network issue occurred"
	}

	if strings.Contains(errLower, "network is unreachable") ||
		strings.Contains(errLower, "no route to host") {
		return "Network unreachable - check network connection and firewall settings"
	}

	if strings.Contains(errLower, "tls") ||
		strings.Contains(errLower, "certificate") ||
		strings.Contains(errLower, "x509") {
		return categorizeSSLError(detail)
	}

	if strings.Contains(errLower, "eof") {
		return "Connection closed unexpectedly - server may have terminated the connection prematurely"
	}

	return "Network error: " + detail
}

// categorizeSSLError provides specific guidance for TLS certificate errors
func categorizeSSLError(detail string) string {
	errLower := strings.ToLower(detail)

	if strings.Contains(errLower, "unknown authority") {
		return "TLS certificate verification failed - set tls.caFile in the profile or enable insecureSkipVerify (insecure)"
	}

	if strings.Contains(errLower, "expired") {
		return "TLS certificate has expired - contact server administrator"
	}

	if strings.Contains(errLower, "certificate is valid for") ||
		strings.Contains(errLower, "doesn't match") {
		return "TLS hostname mismatch - certificate doesn't match the requested hostname"
	}

	if strings.Contains(errLower, "certificate required") ||
		strings.Contains(errLower, "bad certificate") {
		return "TLS client certificate rejected - check tls.certFile and tls.keyFile in the profile"
	}

	if strings.Contains(errLower, "handshake") {
		return "TLS handshake failed - check TLS version compatibility and cipher suites"
	}

	return "TLS error - check certificate configuration: " + detail
}
