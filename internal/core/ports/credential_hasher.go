package ports

// CredentialHasher performs one-way password hashing and verification.
type CredentialHasher interface {
	// Hash produces a self-describing digest (algorithm, salt and parameters
	// encoded together) using a fresh random salt per call.
	Hash(password string) (string, error)

	// Verify recomputes the digest in constant time. A malformed digest
	// yields false, not an error.
	Verify(password, digest string) bool
}
