package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
)

// Generates a merchant API key for the API_KEYS environment variable.
func main() {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("Failed to generate key material: %v", err)
	}
	fmt.Printf("pk_%s\n", hex.EncodeToString(buf))
}
