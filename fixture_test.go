package main

import (
	"bytes"
	"io"
	"strconv"
	"testing"
)

// asciiChunk writes totalLength printable bytes in 4k pieces
type asciiChunk struct {
	w           io.Writer
	totalLength int
	wroteSoFar  int
	nextAscii   byte
	buf         [4096]byte
}

func newAsciiChunk(w io.Writer, totalLength int) *asciiChunk {
	c := &asciiChunk{w: w, totalLength: totalLength}
	for i := range c.buf {
		for {
			c.nextAscii = (c.nextAscii + 1) % 128
			if strconv.IsPrint(rune(c.nextAscii)) && c.nextAscii != '\n' {
				break
			}
		}
		c.buf[i] = c.nextAscii
	}
	return c
}

// Writes a chunk of printable []byte, returns the number of byte written.
func (c *asciiChunk) writeNext() int {
	if c.wroteSoFar >= c.totalLength {
		return 0
	}
	n, err := c.w.Write(c.buf[:min(c.totalLength-c.wroteSoFar, len(c.buf))])
	if err != nil {
		c.wroteSoFar = c.totalLength
		return 0
	}
	c.wroteSoFar += n
	return n
}

func generatePayload(t *testing.T, size int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	chunk := newAsciiChunk(buf, size)
	for n := chunk.writeNext(); n > 0; n = chunk.writeNext() {
	}
	if buf.Len() != size {
		t.Fatalf("generated %d bytes, want %d", buf.Len(), size)
	}
	return buf.Bytes()
}
