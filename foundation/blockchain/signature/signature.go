// Package signature provides helper functions for handling the ledger's
// hashing and signature needs.
package signature

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ledgerID is an arbitrary number added to the recovery id of every
// signature. This will make it clear that the signature comes from this
// ledger. Ethereum and Bitcoin do this as well, but they use the value of 27.
const ledgerID = 29

// ErrInvalidSignature is returned when a freshly produced signature can't
// be verified against the key that produced it.
var ErrInvalidSignature = errors.New("invalid signature")

// =============================================================================

// ErrNotHashable is returned when a value has no JSON form to hash.
var ErrNotHashable = errors.New("value can't be encoded for hashing")

// Hash returns a deterministic digest for the set of values. Every value
// is serialized on its own, the serialized forms are sorted and then hashed
// together, so the order of the arguments does not change the result.
// Values must be JSON encodable, every ledger type is. Anything else, like
// a channel or a NaN float, is a programming error and Hash panics with
// ErrNotHashable.
func Hash(values ...any) string {
	h, err := hash(values...)
	if err != nil {
		panic(err)
	}

	return h
}

func hash(values ...any) (string, error) {
	parts := make([]string, len(values))
	for i, value := range values {
		part, err := canonical(value)
		if err != nil {
			return "", err
		}
		parts[i] = part
	}
	sort.Strings(parts)

	sum := sha256.Sum256([]byte(strings.Join(parts, " ")))
	return hex.EncodeToString(sum[:]), nil
}

// canonical returns the stable JSON form of the value. Map keys are sorted
// by the encoder and struct fields keep their declared order.
func canonical(value any) (string, error) {
	var b bytes.Buffer

	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return "", fmt.Errorf("%w: %T: %w", ErrNotHashable, value, err)
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

// =============================================================================

// KeyPair holds the private key of an account. The public key derived from
// it is the account address.
type KeyPair struct {
	privateKey *ecdsa.PrivateKey
}

// GenerateKeyPair constructs a fresh secp256k1 key pair.
func GenerateKeyPair() (KeyPair, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return KeyPair{}, fmt.Errorf("generating key: %w", err)
	}

	return KeyPair{privateKey: privateKey}, nil
}

// NewKeyPair wraps an existing private key, such as one loaded from disk.
func NewKeyPair(privateKey *ecdsa.PrivateKey) KeyPair {
	return KeyPair{privateKey: privateKey}
}

// Address returns the account address for this key pair.
func (kp KeyPair) Address() string {
	return PublicKeyToAddress(kp.privateKey.PublicKey)
}

// PrivateKey returns the underlying private key.
func (kp KeyPair) PrivateKey() *ecdsa.PrivateKey {
	return kp.privateKey
}

// Sign uses the private key to sign the value and returns the signature
// as a hex string in the [R|S|V] format.
func (kp KeyPair) Sign(value any) (string, error) {
	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	// Sign the hash with the private key to produce a signature.
	sig, err := crypto.Sign(data, kp.privateKey)
	if err != nil {
		return "", err
	}

	// Check the public key extracted from the data and signature.
	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return "", err
	}
	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, sig[:crypto.RecoveryIDOffset]) {
		return "", ErrInvalidSignature
	}

	sig[crypto.RecoveryIDOffset] += ledgerID

	return hexutil.Encode(sig), nil
}

// Verify reports whether the signature was produced by the key behind the
// address over exactly this value.
func Verify(address string, value any, sigStr string) bool {
	publicKey, err := hexutil.Decode(address)
	if err != nil {
		return false
	}
	if _, err := crypto.UnmarshalPubkey(publicKey); err != nil {
		return false
	}

	sig, err := hexutil.Decode(sigStr)
	if err != nil || len(sig) != crypto.SignatureLength {
		return false
	}

	// Check the recovery id is either 0 or 1.
	v := sig[crypto.RecoveryIDOffset] - ledgerID
	if v != 0 && v != 1 {
		return false
	}

	data, err := stamp(value)
	if err != nil {
		return false
	}

	return crypto.VerifySignature(publicKey, data, sig[:crypto.RecoveryIDOffset])
}

// =============================================================================

// PublicKeyToAddress converts the public key to an account address.
func PublicKeyToAddress(pk ecdsa.PublicKey) string {
	return hexutil.Encode(crypto.FromECDSAPub(&pk))
}

// IsAddress reports whether the string decodes to a valid public key.
func IsAddress(address string) bool {
	publicKey, err := hexutil.Decode(address)
	if err != nil {
		return false
	}

	_, err = crypto.UnmarshalPubkey(publicKey)
	return err == nil
}

// stamp returns a hash of 32 bytes that represents this value with
// the ledger stamp embedded into the final hash.
func stamp(value any) ([]byte, error) {

	// The canonical hash gives every value the same length.
	h, err := hash(value)
	if err != nil {
		return nil, err
	}
	digest, _ := hex.DecodeString(h)

	// This stamp is used so signatures we produce when signing data
	// are always unique to this ledger.
	stamp := []byte("\x19Ledger Signed Message:\n32")

	return crypto.Keccak256(stamp, digest), nil
}
