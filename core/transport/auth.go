package transport

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	jwtExpirySeconds = 120
	jwtIssuer        = "cdp"
)

// AuthKey holds the platform API credential used to mint per-request bearer
// tokens. The secret is an EC private key in PEM form (ES256).
type AuthKey struct {
	KeyID      string
	privateKey *ecdsa.PrivateKey
}

// NewAuthKey parses the PEM-encoded EC private key secret.
func NewAuthKey(keyID string, secretPEM string) (*AuthKey, error) {
	block, _ := pem.Decode([]byte(secretPEM))
	if block == nil {
		return nil, fmt.Errorf("api key secret is not valid PEM")
	}

	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("cannot parse EC private key: %w", err)
	}

	return &AuthKey{KeyID: keyID, privateKey: key}, nil
}

// BearerToken mints a short-lived JWT bound to a single method+URL pair. The
// uris claim pins the token to the exact request so a leaked token cannot be
// replayed against another endpoint.
func (a *AuthKey) BearerToken(method string, requestURL string) (string, error) {
	parsed, err := url.Parse(requestURL)
	if err != nil {
		return "", fmt.Errorf("invalid request url %s: %w", requestURL, err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  a.KeyID,
		"iss":  jwtIssuer,
		"aud":  []string{"cdp_service"},
		"nbf":  now.Unix(),
		"exp":  now.Add(jwtExpirySeconds * time.Second).Unix(),
		"uris": []string{fmt.Sprintf("%s %s%s", method, parsed.Host, parsed.Path)},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = a.KeyID
	token.Header["nonce"] = generateNonce()

	return token.SignedString(a.privateKey)
}

func generateNonce() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
