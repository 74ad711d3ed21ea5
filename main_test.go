package main

import (
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"testing"
	"time"
)

func TestServeHandlesConnectionsConcurrently(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(newRoot(t))
	served := make(chan error, 1)
	go func() { served <- serve(cfg, ln) }()

	// a client that connects and never sends anything
	slow, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer slow.Close()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	if _, err := conn.Write([]byte("GET /a.html HTTP/1.0\r\n\r\n")); err != nil {
		t.Fatal(err)
	}
	raw, err := io.ReadAll(conn)
	if err != nil {
		t.Fatal(err)
	}
	res := parseResponse(t, raw)
	ExpectEqual(t, "HTTP/1.0 200 OK", res.statusLine)
	ExpectEqual(t, "hi", string(res.body))

	ln.Close()
	select {
	case err := <-served:
		if err != nil {
			t.Errorf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("serve did not return after the listener closed")
	}
}

// panicConn blows up on the first response write
type panicConn struct {
	*MockConn
}

func (c panicConn) Write(b []byte) (int, error) {
	panic("write exploded")
}

func TestHandleRecoversAndReleasesFile(t *testing.T) {
	root := newRoot(t)
	conn := panicConn{newMockConn("GET /a.html HTTP/1.0\r\n\r\n")}
	w := NewWorker(testConfig(root))

	handle(w, conn)

	if !conn.closed {
		t.Error("connection left open after panic")
	}
	if w.file == nil {
		t.Fatal("file was never opened")
	}
	if _, err := w.file.Stat(); !errors.Is(err, os.ErrClosed) {
		t.Errorf("file left open after panic: %v", err)
	}
}

// flakyListener fails a few accepts and then reports itself closed
type flakyListener struct {
	net.Listener
	mu       sync.Mutex
	failures int
	calls    int
}

func (l *flakyListener) Accept() (net.Conn, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.calls <= l.failures {
		return nil, errors.New("accept: too many open files")
	}
	return nil, net.ErrClosed
}

func TestServeBacksOffOnAcceptErrors(t *testing.T) {
	ln := &flakyListener{failures: 3}
	start := time.Now()
	if err := serve(testConfig(t.TempDir()), ln); err != nil {
		t.Fatal(err)
	}
	// 5ms + 10ms + 20ms
	if elapsed := time.Since(start); elapsed < 35*time.Millisecond {
		t.Errorf("accept retried without backing off: %v", elapsed)
	}
	if ln.calls != 4 {
		t.Errorf("got %d accepts, want 4", ln.calls)
	}
}
