// Package main is a development UDP receiver for the logsim UDP output.
// Each datagram carries one record; the payload is echoed to stdout.
package main

import (
	"flag"
	"fmt"
	"net"
	"strings"
)

func main() {
	listen := flag.String("addr", "localhost:5000", "listen address")
	flag.Parse()

	addr, err := net.ResolveUDPAddr("udp", *listen)
	if err != nil {
		fmt.Printf("Failed to resolve UDP address: %v\n", err)
		return
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		fmt.Printf("Failed to start UDP receiver: %v\n", err)
		return
	}
	defer conn.Close()

	fmt.Printf("UDP receiver listening on %s\n", *listen)

	// Sized for the largest datagram the output can send
	buffer := make([]byte, 64*1024)

	for {
		n, _, err := conn.ReadFromUDP(buffer)
		if err != nil {
			fmt.Printf("UDP read error: %v\n", err)
			continue
		}

		fmt.Println(strings.TrimSuffix(string(buffer[:n]), "\n"))
	}
}
