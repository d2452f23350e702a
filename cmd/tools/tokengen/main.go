package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"foc-inventory-api/internal/auth"
	"foc-inventory-api/internal/config"
)

func main() {
	var (
		expiryMins = flag.Int("expiry", 1440, "Session expiry in minutes (default: 24 hours)")
		secret     = flag.String("secret", "", "JWT secret (overrides JWT_SECRET env var)")
		baseURL    = flag.String("url", "http://localhost:8080", "API base URL for the usage example")
	)
	flag.Parse()

	cfg := config.Load()
	if *secret != "" {
		cfg.JWTSecret = *secret
	}

	sessions := auth.NewSessionManager(cfg.JWTSecret, time.Duration(*expiryMins)*time.Minute)
	if err := sessions.ValidateConfig(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	sess, err := sessions.Issue()
	if err != nil {
		log.Fatalf("Failed to issue session: %v", err)
	}

	fmt.Printf("Session token generated successfully!\n\n")
	fmt.Printf("Role: %s\n", auth.RoleAuthorized)
	fmt.Printf("Expires: %s\n", sess.ExpiresAt.Format(time.RFC3339))
	fmt.Printf("\nToken:\n%s\n\n", sess.Token)

	fmt.Printf("Usage example:\n")
	fmt.Printf("curl --cookie \"%s=%s\" %s/inventory/summary\n", auth.CookieName, sess.Token, *baseURL)
}
