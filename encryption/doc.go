// Package encryption seals blobs at rest with an AEAD cipher.
//
// AES-256-GCM and ChaCha20-Poly1305 are supported. The configured key is
// hashed with SHA-256 to the 32 bytes both ciphers need. Sealed output is
// nonce || ciphertext || tag.
//
//	enc, err := encryption.New(key, encryption.WithAlgorithm(encryption.AlgorithmChaCha20))
//	sealed, err := enc.Seal(plaintext)
//	plain, err := enc.Open(sealed)
package encryption
