// Package main is a development TCP receiver for the logsim TCP output.
// It accepts connections and echoes each received record line to stdout.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"time"
)

func main() {
	addr := flag.String("addr", "localhost:5000", "listen address")
	flag.Parse()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Printf("Failed to start TCP receiver: %v\n", err)
		return
	}
	defer listener.Close()

	fmt.Printf("TCP receiver listening on %s\n", *addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			fmt.Printf("Failed to accept connection: %v\n", err)
			continue
		}

		// Handle each connection in a goroutine
		go handleConnection(conn)
	}
}

func handleConnection(conn net.Conn) {
	defer conn.Close()

	var records int
	start := time.Now()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		records++
		fmt.Println(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		fmt.Printf("TCP read error: %v\n", err)
	}

	fmt.Printf("Connection from %s closed after %d records in %s\n",
		conn.RemoteAddr(), records, time.Since(start).Round(time.Millisecond))
}
