// Package token provides cryptographically secure token generation and
// hashing utilities.
//
// Generate/GenerateWithLength produce Base64 RawURL encoded random
// tokens. Hash/Verify compute and check a SHA-256 digest in
// constant time, so a token need never be stored in plaintext.
//
// The local control socket prepends its own "ckctl_" prefix to a
// generated token before writing it to the runtime directory; this
// package itself stays prefix-agnostic.
package token
