package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode"
)

const copyBufferSize = 32 * 1024

var errShortBody = errors.New("body shorter than Content-Length")

func capitalizeHeader(h string) string {
	ret := make([]rune, 0, len(h))
	cap := true
	for _, r := range h {
		if cap && unicode.IsLetter(r) {
			ret = append(ret, unicode.ToUpper(r))
			cap = false
		} else {
			ret = append(ret, r)
		}
		if r == '-' {
			cap = true
		}
	}
	return string(ret)
}

// WriteResponse writes the status line, headers, a blank line and then
// exactly res.ContentLength bytes of res.Body.
func WriteResponse(w io.Writer, res *Response) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %d %s\r\n", res.Version, res.Status, res.Phrase)
	for _, h := range res.Headers {
		fmt.Fprintf(bw, "%s: %s\r\n", capitalizeHeader(h.Name), h.Value)
	}
	bw.WriteString("\r\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("Failed to write header: %w", err)
	}

	if res.Body == nil || res.ContentLength <= 0 {
		return nil
	}
	buf := make([]byte, copyBufferSize)
	n, err := io.CopyBuffer(w, io.LimitReader(res.Body, res.ContentLength), buf)
	if err != nil {
		return fmt.Errorf("Failed to write body: %w", err)
	}
	if n != res.ContentLength {
		return fmt.Errorf("%w: wrote %d of %d", errShortBody, n, res.ContentLength)
	}
	return nil
}
