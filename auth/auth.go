// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingClientID   = errors.New("client id is required")
	ErrInvalidInvokerKey = errors.New("invalid invoker key")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateInvokerKey creates an HMAC-based key that lets a client invoke
// simulations. It is deterministic, so nothing needs to be stored.
func GenerateInvokerKey(clientID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte("invoke:"))
	h.Write([]byte(clientID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateInvokerKey checks the key presented by a client
func ValidateInvokerKey(clientID, key, salt string) error {
	if clientID == "" {
		return ErrMissingClientID
	}
	expected := GenerateInvokerKey(clientID, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidInvokerKey
	}
	return nil
}
