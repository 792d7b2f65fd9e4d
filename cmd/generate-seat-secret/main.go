package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
)

func main() {
	size := flag.Int("bytes", 32, "Secret length in bytes")
	flag.Parse()

	if *size < 32 {
		log.Fatalf("Refusing to generate a %d byte secret; HS256 wants at least 32", *size)
	}

	secret := make([]byte, *size)
	if _, err := rand.Read(secret); err != nil {
		log.Fatal("Failed to generate secret:", err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(secret)

	fmt.Println("=== SEAT SECRET (Keep this secret!) ===")
	fmt.Println("Set it in config.yaml or as the RANDCHESS_SEATS_SECRET environment variable:")
	fmt.Println()
	fmt.Println("  seats:")
	fmt.Println("    required: true")
	fmt.Printf("    secret: %q\n", encoded)
	fmt.Println()
	fmt.Println("=== IMPORTANT SECURITY NOTES ===")
	fmt.Println("1. NEVER commit the secret to version control")
	fmt.Println("2. Changing the secret invalidates every seat token already handed out")
	fmt.Println("3. Use environment variables or secure key management in production")
}
