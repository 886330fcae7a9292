// Package uniuri generates random strings for bearer token secrets.
// It reads crypto/rand and rejects biased bytes, so every character of the
// alphabet is equally likely.
package uniuri
