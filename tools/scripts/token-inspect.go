// Package main provides a debugging tool that prints the claims of a session
// token WITHOUT verifying its signature.
//
// It exists for support and incident work: pasting a token from a bug report
// shows who it was issued to and when it expires, even when the operator does
// not hold the signing secret. Its output must never be used to authenticate
// anything.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"callboard/cmd/security/token/unchecked"
)

func main() {
	jsonOut := flag.Bool("json", false, "print claims as JSON")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-json] <token>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	claims, err := unchecked.Decode(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(claims); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			os.Exit(1)
		}
		return
	}

	now := time.Now().UTC()
	fmt.Printf("subject:    %s\n", claims.Subject)
	fmt.Printf("username:   %s\n", claims.Username)
	fmt.Printf("email:      %s\n", claims.Email)
	fmt.Printf("issued_at:  %s\n", claims.IssuedAt.Format(time.RFC3339))
	fmt.Printf("expires_at: %s", claims.ExpiresAt.Format(time.RFC3339))
	if claims.ExpiresAt.Before(now) {
		fmt.Printf("  (EXPIRED %s ago)", now.Sub(claims.ExpiresAt).Round(time.Second))
	}
	fmt.Println()
	fmt.Println()
	fmt.Println("signature NOT verified; do not trust these claims for auth decisions")
}
