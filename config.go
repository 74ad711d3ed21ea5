package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	defaultHost = "127.0.0.1"
	defaultPort = 8534
)

type Config struct {
	Host string
	Port int
	Root string
	// percent-decode request-targets before resolving them
	DecodeTarget bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Host:         defaultHost,
		Port:         defaultPort,
		Root:         ".",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterFlags binds -port and its -p shorthand.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Port, "port", c.Port, "port number")
	fs.IntVar(&c.Port, "p", c.Port, "port number (shorthand)")
}

// Validate makes Root absolute and checks that it is a directory.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("Invalid port: %d", c.Port)
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("Invalid timeouts: read %v, write %v", c.ReadTimeout, c.WriteTimeout)
	}
	root, err := filepath.Abs(c.Root)
	if err != nil {
		return fmt.Errorf("Invalid root %s: %w", c.Root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("Invalid root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("Invalid root: %s is not a directory", root)
	}
	c.Root = root
	return nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
