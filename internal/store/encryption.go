package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"whatsweb/internal/constants"
)

// encryptor seals snapshot fields with AES-GCM. A nil gcm disables
// encryption and every method passes its input through.
type encryptor struct {
	gcm cipher.AEAD
}

func newEncryptor(secret string) (*encryptor, error) {
	if secret == "" {
		return &encryptor{}, nil
	}
	if len(secret) < constants.MinEncryptionSecretLength {
		return nil, fmt.Errorf("encryption secret must be at least %d characters long", constants.MinEncryptionSecretLength)
	}

	key := pbkdf2.Key([]byte(secret), []byte(constants.EncryptionSalt),
		constants.EncryptionIterations, constants.EncryptionKeySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &encryptor{gcm: gcm}, nil
}

func (e *encryptor) enabled() bool {
	return e != nil && e.gcm != nil
}

// seal encrypts with a random nonce prepended to the ciphertext.
func (e *encryptor) seal(plaintext []byte) ([]byte, error) {
	if !e.enabled() {
		return plaintext, nil
	}

	nonce := make([]byte, constants.EncryptionNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return e.encode(nonce, plaintext), nil
}

// sealForLookup encrypts deterministically so the result can be used in a
// WHERE clause.
func (e *encryptor) sealForLookup(plaintext string) string {
	if !e.enabled() || plaintext == "" {
		return plaintext
	}

	sum := sha256.Sum256([]byte(plaintext + constants.EncryptionLookupSalt))
	return string(e.encode(sum[:constants.EncryptionNonceSize], []byte(plaintext)))
}

func (e *encryptor) encode(nonce, plaintext []byte) []byte {
	sealed := e.gcm.Seal(nil, nonce, plaintext, nil) // #nosec G407 - lookup nonce is derived on purpose
	data := append(append([]byte{}, nonce...), sealed...)
	out := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(out, data)
	return out
}

func (e *encryptor) open(ciphertext []byte) ([]byte, error) {
	if !e.enabled() {
		return ciphertext, nil
	}

	data := make([]byte, base64.StdEncoding.DecodedLen(len(ciphertext)))
	n, err := base64.StdEncoding.Decode(data, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	data = data[:n]
	if len(data) < constants.EncryptionNonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, sealed := data[:constants.EncryptionNonceSize], data[constants.EncryptionNonceSize:]
	plaintext, err := e.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
