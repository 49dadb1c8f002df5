package errx

import "net/http"

// WrapSerpAPI maps shopping search backend failures to the unified Error type.
// The upstream status code is preserved when it is an HTTP error, otherwise
// the failure is reported as a bad gateway.
func WrapSerpAPI(err error, upstreamStatus int) *Error {
	if err == nil {
		return nil
	}

	status := http.StatusBadGateway
	if upstreamStatus >= http.StatusBadRequest {
		status = upstreamStatus
	}

	return New(err, status, SerpAPIErrorMessage)
}
