package httputil

import "net/http"

// JSONHeaders returns the headers sent with every product API request. Accept-Encoding is
// set explicitly, so the transport leaves decompression to ReadBody.
func JSONHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("Accept-Encoding", "gzip, br")
	return h
}

// Apply copies h onto req, replacing existing values.
func Apply(req *http.Request, h http.Header) {
	for k, v := range h {
		req.Header[k] = v
	}
}
