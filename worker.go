package main

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const indexFile = "index.html"

// Worker handles exactly one request/response cycle on a connection
type Worker struct {
	cfg  *Config
	conn net.Conn
	req  *Request
	res  *Response
	file *os.File // body of res when serving a file
}

type stateFunc func(*Worker) stateFunc

func NewWorker(cfg *Config) *Worker {
	return &Worker{cfg: cfg}
}

// Start runs the cycle and closes conn when done. The worker owns conn.
func (w *Worker) Start(conn net.Conn) {
	w.conn = conn
	for state := waitForRequest; state != nil; {
		state = state(w)
	}
}

func (w *Worker) remote() string {
	if addr := w.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "(unknown)"
}

func (w *Worker) requestReceived(req *Request) stateFunc {
	w.req = req
	log.Printf("I %s %s %s %s (%d header lines)",
		w.remote(), req.Method, req.Target, req.Version, req.HeaderLines)

	if req.Method != "GET" {
		w.res = htmlMessage(501, "Method "+req.Method+" is not supported.")
		return sendResponse
	}

	rt := Resolve(req.Target, w.cfg.Root, w.cfg.DecodeTarget)
	switch rt.Kind {
	case KindFile:
		return w.serveFile(rt.Path)
	case KindDirectory:
		return w.serveDirectory(rt)
	}
	w.res = notFound(req.Target)
	return sendResponse
}

func (w *Worker) serveDirectory(rt ResolvedTarget) stateFunc {
	if !strings.HasSuffix(w.req.Target, "/") {
		w.res = NewResponse(301, "", nil, 0, Header{"location", w.req.Target + "/"})
		return sendResponse
	}

	if index := classify(filepath.Join(rt.Path, indexFile), false); index.Kind == KindFile {
		return w.serveFile(index.Path)
	}

	body, err := DirectoryListing(rt.Path, w.req.Target)
	if err != nil {
		log.Printf("E %s listing %s: %v", w.remote(), rt.Path, err)
		w.res = htmlMessage(500, "Could not read directory.")
		return sendResponse
	}
	w.res = NewResponse(200, "text/html", bytes.NewReader(body), int64(len(body)))
	return sendResponse
}

// serveFile stats right before opening. A file that changes size between
// the two calls is sent truncated or cut short; see WriteResponse.
func (w *Worker) serveFile(path string) stateFunc {
	info, err := os.Stat(path)
	if err == nil {
		w.file, err = os.Open(path)
	}
	if err != nil {
		log.Printf("W %s open %s: %v", w.remote(), path, err)
		w.res = openFailed(w.req.Target, err)
		return sendResponse
	}
	w.res = NewResponse(200, ContentTypeForPath(path), w.file, info.Size())
	return sendResponse
}

func openFailed(target string, err error) *Response {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return notFound(target)
	case errors.Is(err, os.ErrPermission):
		return htmlMessage(403, "Access to '"+target+"' is forbidden.")
	}
	return htmlMessage(500, "Error reading file.")
}

func notFound(target string) *Response {
	return htmlMessage(404, "File '"+target+"' not found.")
}

func htmlMessage(status int, msg string) *Response {
	body := fmt.Sprintf("<html><body><h1>%d %s</h1><p>%s</p></body></html>",
		status, statusPhrases[status], html.EscapeString(msg))
	return NewResponse(status, "text/html", strings.NewReader(body), int64(len(body)))
}

// state funcs

func waitForRequest(w *Worker) stateFunc {
	timeout := w.cfg.ReadTimeout
	if err := w.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		log.Printf("W %s set read deadline: %v", w.remote(), err)
	}
	r := NewRequestReader(w.conn)
	r.Start()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case req := <-r.RequestReceived():
		return w.requestReceived(req)
	case err := <-r.ErrorOccurred():
		if errors.Is(err, errBadRequestLine) {
			log.Printf("W %s %v", w.remote(), err)
			w.res = htmlMessage(400, "Malformed request line.")
			return sendResponse
		}
		if errors.Is(err, errEndOfStream) {
			log.Printf("I %s closed without a request", w.remote())
		} else {
			log.Printf("W %s dropped: %v", w.remote(), err)
		}
		return finishWorker
	case <-timer.C:
		log.Printf("W %s request timed out after %v", w.remote(), timeout)
		return finishWorker
	}
}

// idleWriter moves the write deadline forward before every write, so only a
// client that stops reading for a whole timeout is cut off.
type idleWriter struct {
	conn    net.Conn
	timeout time.Duration
}

func (iw idleWriter) Write(b []byte) (int, error) {
	if err := iw.conn.SetWriteDeadline(time.Now().Add(iw.timeout)); err != nil {
		return 0, err
	}
	return iw.conn.Write(b)
}

func sendResponse(w *Worker) stateFunc {
	if err := WriteResponse(idleWriter{w.conn, w.cfg.WriteTimeout}, w.res); err != nil {
		log.Printf("E %s sending %d response: %v", w.remote(), w.res.Status, err)
		return finishWorker
	}
	log.Printf("I %s %d %s %d", w.remote(), w.res.Status, w.res.Phrase, w.res.ContentLength)
	return finishWorker
}

func finishWorker(w *Worker) stateFunc {
	if w.file != nil {
		w.file.Close()
	}
	if err := w.conn.Close(); err != nil {
		log.Printf("W %s close: %v", w.remote(), err)
	}
	return nil
}
