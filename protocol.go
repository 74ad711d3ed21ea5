package main

import (
	"io"
	"strconv"
)

// Header lines are written in the order they were added, unlike http.Header
type Header struct {
	Name  string
	Value string
}

type Request struct {
	Method  string
	Target  string
	Version string
	// number of header lines drained; only used for logging
	HeaderLines int
}

type Response struct {
	Version       string
	Status        int
	Phrase        string
	Headers       []Header
	Body          io.Reader
	ContentLength int64
}

const protoVersion = "HTTP/1.0"

var statusPhrases = map[int]string{
	200: "OK",
	301: "Moved Permanently",
	400: "Bad Request",
	403: "Forbidden",
	404: "Not Found",
	500: "Internal Server Error",
	501: "Not Implemented",
}

// NewResponse builds a response whose headers end with content-length and
// connection: close. extra headers go between them. Names are kept lowercase
// here and capitalized by WriteResponse.
func NewResponse(status int, contentType string, body io.Reader, length int64, extra ...Header) *Response {
	headers := make([]Header, 0, 3+len(extra))
	if contentType != "" {
		headers = append(headers, Header{"content-type", contentType})
	}
	headers = append(headers, Header{"content-length", strconv.FormatInt(length, 10)})
	headers = append(headers, extra...)
	headers = append(headers, Header{"connection", "close"})
	return &Response{
		Version:       protoVersion,
		Status:        status,
		Phrase:        statusPhrases[status],
		Headers:       headers,
		Body:          body,
		ContentLength: length,
	}
}
