package main

import (
	"errors"
	"flag"
	"log"
	"net"
	"time"
)

const maxAcceptDelay = time.Second

var config = DefaultConfig()

func init() {
	config.RegisterFlags(flag.CommandLine)
}

func handle(worker *Worker, conn net.Conn) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("E worker for %s panicked: %v", conn.RemoteAddr(), r)
			worker.conn = conn
			finishWorker(worker)
		}
	}()
	worker.Start(conn) // worker takes the ownership of |conn|
}

// serve accepts until ln is closed. Each connection gets its own goroutine.
// Failing accepts (out of descriptors, for one) back off up to a second.
func serve(cfg *Config, ln net.Listener) error {
	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay = min(2*delay, maxAcceptDelay)
			}
			log.Printf("accept error: %v; retrying in %v", err, delay)
			time.Sleep(delay)
			continue
		}
		delay = 0
		go handle(NewWorker(cfg), conn)
	}
}

func main() {
	flag.Parse()
	if err := config.Validate(); err != nil {
		log.Fatal(err)
	}

	ln, err := net.Listen("tcp", config.Addr())
	if err != nil {
		log.Fatalf("listen %s: %v", config.Addr(), err)
	}
	defer ln.Close()

	log.Printf("I serving %s on %s", config.Root, ln.Addr())
	if err := serve(config, ln); err != nil {
		log.Fatal(err)
	}
}
