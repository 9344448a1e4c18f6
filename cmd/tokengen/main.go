// Package main provides a CLI tool for generating local test tokens for the Academix API.
// These tokens use the dev signing key and will NOT work in production.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	jwttoken "academix/internal/jwt_token"
	id "academix/pkg/domain"
)

const (
	// Matches config.go when JWT_SIGNING_KEY is not set.
	devSigningKey = "dev-secret-key-change-in-production"
	devIssuer     = "academix"

	defaultTokenTTL = 15 * time.Minute
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresIn string            `json:"expires_in,omitempty"`
	Claims    map[string]any    `json:"claims,omitempty"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	studentCmd := flag.NewFlagSet("student", flag.ExitOnError)
	studentID := studentCmd.String("student-id", "", "Student ID (UUID). Generated if empty.")
	studentEmail := studentCmd.String("email", "", "Student email claim (optional)")
	studentTTL := studentCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	signingKey := studentCmd.String("key", envOr("JWT_SIGNING_KEY", devSigningKey), "HS256 signing key")
	issuer := studentCmd.String("issuer", envOr("JWT_ISSUER", devIssuer), "Token issuer")
	studentJSON := studentCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "student":
		studentCmd.Parse(os.Args[2:]) //nolint:errcheck // ExitOnError
		generateStudentToken(*studentID, *studentEmail, *signingKey, *issuer, *studentTTL, *studentJSON)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate student bearer tokens for the Academix API

WARNING: Only use for local development and testing.

Usage:
  tokengen student [flags]

Examples:
  tokengen student -student-id "550e8400-e29b-41d4-a716-446655440000"
  tokengen student -ttl 1h -json`)
}

func generateStudentToken(rawID, email, signingKey, issuer string, ttl time.Duration, jsonOutput bool) {
	sid := parseOrGenerateStudentID(rawID)

	svc := jwttoken.NewJWTService(signingKey, issuer, ttl)
	token, jti, err := svc.GenerateStudentToken(context.Background(), sid, email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			Type:      "student_token",
			ExpiresIn: ttl.String(),
			Claims: map[string]any{
				"sub":   sid.String(),
				"email": email,
				"iss":   issuer,
				"jti":   jti,
			},
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		})
		return
	}

	fmt.Println("Student Token (JWT)")
	fmt.Println("===================")
	fmt.Printf("Expires In:  %s\n", ttl)
	fmt.Printf("Student ID:  %s\n", sid)
	fmt.Printf("JTI:         %s\n", jti)
	fmt.Println()
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println(`  curl -X POST -H "Authorization: Bearer <token>" -d '{"exam_id":"..."}' http://localhost:8080/certificates/issue`)
}

func parseOrGenerateStudentID(input string) id.StudentID {
	if input == "" {
		return id.StudentID(uuid.New())
	}
	parsed, err := id.ParseStudentID(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid student-id: %s\n", input)
		os.Exit(1)
	}
	return parsed
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
