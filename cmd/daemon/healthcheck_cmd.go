// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ManuGH/videosvc/internal/config"
	"github.com/ManuGH/videosvc/internal/validate"
)

var checkPaths = map[string]string{
	"ready": "/readyz",
	"live":  "/healthz",
}

// runHealthcheckCLI checks a running daemon and exits 0 on HTTP 200, 1 on any
// other outcome and 2 on usage errors. The port defaults to the one in
// $VIDEOSVC_LISTEN so the check follows the container's configuration.
func runHealthcheckCLI(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("videosvc healthcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mode := fs.String("mode", "ready", "check to run: ready or live")
	host := fs.String("host", "localhost", "daemon host")
	port := fs.Int("port", defaultCheckPort(), "daemon port")
	timeout := fs.Duration("timeout", 5*time.Second, "request timeout")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	path, ok := checkPaths[*mode]
	if !ok {
		fmt.Fprintf(stderr, "Unknown mode %q (use ready or live)\n", *mode)
		return 2
	}
	v := validate.New()
	v.Port("port", *port)
	if err := v.Err(); err != nil {
		fmt.Fprintf(stderr, "Invalid flags: %v\n", err)
		return 2
	}

	target := "http://" + net.JoinHostPort(*host, strconv.Itoa(*port)) + path
	client := &http.Client{Timeout: *timeout}
	resp, err := client.Get(target)
	if err != nil {
		fmt.Fprintf(stderr, "%s check failed: %v\n", *mode, err)
		return 1
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(stderr, "%s check failed: %s\n", *mode, resp.Status)
		return 1
	}
	fmt.Fprintf(stdout, "%s check ok\n", *mode)
	return 0
}

func defaultCheckPort() int {
	addr := config.ParseString(config.EnvListen, config.DefaultListenAddr)
	if _, p, err := net.SplitHostPort(addr); err == nil {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			return n
		}
	}
	return 8080
}
