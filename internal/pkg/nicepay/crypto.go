package nicepay

import (
	"crypto/aes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// The processor signs and verifies messages with SHA-256 hex digests over
// context-specific field concatenations. Field order and presence is part of
// the wire contract; a digest computed over a different concatenation never
// verifies.

func sha256Hex(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// GenerateEdiDate returns the per-call timestamp carried by every outbound
// body, in ISO 8601 / RFC 3339 UTC.
func GenerateEdiDate() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// GenerateBasicAuth builds the static credential header value from the
// client id and secret.
func GenerateBasicAuth(clientID, secretKey string) string {
	credentials := base64.StdEncoding.EncodeToString([]byte(clientID + ":" + secretKey))
	return "Basic " + credentials
}

// GenerateApprovalSignData signs an approval request:
// sha256(tid + amount + ediDate + secretKey).
func GenerateApprovalSignData(tid string, amount int64, ediDate, secretKey string) string {
	return sha256Hex(tid + strconv.FormatInt(amount, 10) + ediDate + secretKey)
}

// GenerateCancelSignData signs a cancel request:
// sha256(tid + ediDate + secretKey).
func GenerateCancelSignData(tid, ediDate, secretKey string) string {
	return sha256Hex(tid + ediDate + secretKey)
}

// GenerateNetCancelSignData signs a net-cancel request:
// sha256(orderId + ediDate + secretKey).
func GenerateNetCancelSignData(orderID, ediDate, secretKey string) string {
	return sha256Hex(orderID + ediDate + secretKey)
}

// GenerateBillingRegisterSignData signs a billing key registration:
// sha256(orderId + ediDate + secretKey).
func GenerateBillingRegisterSignData(orderID, ediDate, secretKey string) string {
	return sha256Hex(orderID + ediDate + secretKey)
}

// GenerateBillingChargeSignData signs a billing key charge:
// sha256(orderId + bid + ediDate + secretKey).
func GenerateBillingChargeSignData(orderID, bid, ediDate, secretKey string) string {
	return sha256Hex(orderID + bid + ediDate + secretKey)
}

// VerifyAuthSignature checks the browser-callback signature:
// sha256(authToken + clientId + amount + secretKey).
func VerifyAuthSignature(authToken, clientID string, amount int64, secretKey, receivedSignature string) bool {
	expected := sha256Hex(authToken + clientID + strconv.FormatInt(amount, 10) + secretKey)
	return safeCompare(expected, receivedSignature)
}

// VerifyResponseSignature checks approval-response and webhook signatures:
// sha256(tid + amount + ediDate + secretKey).
func VerifyResponseSignature(tid string, amount int64, ediDate, secretKey, receivedSignature string) bool {
	expected := sha256Hex(tid + strconv.FormatInt(amount, 10) + ediDate + secretKey)
	return safeCompare(expected, receivedSignature)
}

// safeCompare is constant-time in the digest content. A length mismatch
// fails immediately without comparing bytes.
func safeCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// EncryptCardData encrypts billing card data with AES-256-ECB and PKCS5
// padding, hex encoded, as the processor mandates for encMode A2. The key
// is the secret right-padded with '0' to 32 bytes (and truncated to 32).
// The ciphertext is sent once on registration and never persisted.
func EncryptCardData(cardNo, expYear, expMonth, idNo, cardPw, secretKey string) (string, error) {
	plain := fmt.Sprintf("cardNo=%s&expYear=%s&expMonth=%s&idNo=%s&cardPw=%s",
		cardNo, expYear, expMonth, idNo, cardPw)

	key := []byte(secretKey)
	for len(key) < 32 {
		key = append(key, '0')
	}
	key = key[:32]

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	padded := pkcs5Pad([]byte(plain), block.BlockSize())
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += block.BlockSize() {
		block.Encrypt(out[i:i+block.BlockSize()], padded[i:i+block.BlockSize()])
	}
	return hex.EncodeToString(out), nil
}

func pkcs5Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	for i := 0; i < padding; i++ {
		data = append(data, byte(padding))
	}
	return data
}
