package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const maxLineLength = 8 * 1024

var (
	errEndOfStream     = errors.New("connection closed before request line")
	errLineTooLong     = errors.New("line too long")
	errBadRequestLine  = errors.New("invalid request line")
	errHeadersTruncate = errors.New("connection closed inside header block")
)

type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r io.Reader) *lineReader {
	if casted, ok := r.(*bufio.Reader); ok {
		return &lineReader{casted}
	}
	return &lineReader{bufio.NewReader(r)}
}

// similar to readLineSlice() in net/textproto/reader.go
func (r *lineReader) readLine() (string, error) {
	var line []byte
	for {
		l, more, err := r.r.ReadLine()
		if err != nil {
			return "", err
		}
		if line == nil && !more {
			return string(l), nil
		}
		line = append(line, l...)
		if len(line) > maxLineLength {
			return "", errLineTooLong
		}
		if !more {
			break
		}
	}
	return string(line), nil
}

// RequestReader reads an HTTP/1.0 request line and drains the header block
type RequestReader struct {
	lr    *lineReader
	req   *Request
	reqCh chan *Request
	errCh chan error
}

func NewRequestReader(r io.Reader) *RequestReader {
	// buffered so the goroutine can exit even if nobody is listening anymore
	return &RequestReader{
		lr:    newLineReader(r),
		req:   &Request{},
		reqCh: make(chan *Request, 1),
		errCh: make(chan error, 1),
	}
}

func (r *RequestReader) Start() {
	go func() {
		rl, err := r.lr.readLine()
		if err != nil {
			if err == io.EOF {
				err = errEndOfStream
			}
			r.errCh <- fmt.Errorf("Failed to read request line: %w", err)
			return
		}
		// an empty request line has no header block to wait for
		if strings.TrimSpace(rl) == "" {
			r.errCh <- fmt.Errorf("%w: empty", errBadRequestLine)
			return
		}
		if err := r.drainHeaders(); err != nil {
			r.errCh <- err
			return
		}
		if err := r.parseRequestLine(rl); err != nil {
			r.errCh <- err
			return
		}
		r.reqCh <- r.req
	}()
}

func (r *RequestReader) parseRequestLine(rl string) error {
	fields := strings.Fields(rl)
	if len(fields) < 2 {
		return fmt.Errorf("%w: %q", errBadRequestLine, rl)
	}
	r.req.Method = fields[0]
	r.req.Target = fields[1]
	if len(fields) > 2 {
		r.req.Version = fields[2]
	}
	return nil
}

func (r *RequestReader) drainHeaders() error {
	for {
		line, err := r.lr.readLine()
		if err != nil {
			if err == io.EOF {
				err = errHeadersTruncate
			}
			return fmt.Errorf("Failed to read headers: %w", err)
		}
		if len(line) == 0 {
			return nil
		}
		r.req.HeaderLines++
	}
}

func (r *RequestReader) RequestReceived() <-chan *Request {
	return r.reqCh
}

func (r *RequestReader) ErrorOccurred() <-chan error {
	return r.errCh
}
