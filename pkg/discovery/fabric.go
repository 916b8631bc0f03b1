package discovery

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// compressedFabricInfo is the HKDF info string for compressed fabric IDs.
var compressedFabricInfo = []byte("CompressedFabric")

// rootPublicKeyLen is the length of an uncompressed P-256 point without the 0x04 prefix.
const rootPublicKeyLen = 64

// CompressedFabricID derives the compressed fabric identifier used in
// operational instance names.
//
// The root public key may be given as the 65-byte uncompressed point or as
// the 64 bytes following the 0x04 prefix. The result is the first 64 bits of
// HKDF-SHA256(key, salt = big-endian fabric ID, info = "CompressedFabric").
func CompressedFabricID(rootPublicKey []byte, fabricID uint64) (uint64, error) {
	key := rootPublicKey
	if len(key) == rootPublicKeyLen+1 {
		if key[0] != 0x04 {
			return 0, fmt.Errorf("%w: not an uncompressed point", ErrInvalidPublicKey)
		}
		key = key[1:]
	}
	if len(key) != rootPublicKeyLen {
		return 0, fmt.Errorf("%w: length %d", ErrInvalidPublicKey, len(rootPublicKey))
	}

	var salt [8]byte
	binary.BigEndian.PutUint64(salt[:], fabricID)

	out := make([]byte, 8)
	if _, err := io.ReadFull(hkdf.New(sha256.New, key, salt[:], compressedFabricInfo), out); err != nil {
		return 0, fmt.Errorf("failed to derive compressed fabric ID: %w", err)
	}
	return binary.BigEndian.Uint64(out), nil
}

// CompressedFabricIDFromCertificate derives the compressed fabric identifier
// from a root CA certificate carrying a P-256 public key.
func CompressedFabricIDFromCertificate(cert *x509.Certificate, fabricID uint64) (uint64, error) {
	pub, ok := cert.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return 0, fmt.Errorf("%w: expected ECDSA key, got %T", ErrInvalidPublicKey, cert.PublicKey)
	}
	ecdhKey, err := pub.ECDH()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return CompressedFabricID(ecdhKey.Bytes(), fabricID)
}
