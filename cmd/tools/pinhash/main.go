package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// pinhash prints a bcrypt hash suitable for AUTHORIZED_PIN_HASHES.
// PINs are read one per line from stdin when -pin is not given.
func main() {
	var (
		pin  = flag.String("pin", "", "PIN to hash")
		cost = flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	)
	flag.Parse()

	if *pin != "" {
		printHash(*pin, *cost)
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		printHash(line, *cost)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Failed to read stdin: %v", err)
	}
}

func printHash(pin string, cost int) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		log.Fatalf("Failed to hash PIN: %v", err)
	}
	fmt.Println(string(hash))
}
