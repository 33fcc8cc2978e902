// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signing keys for session tokens. A fresh pair is generated at startup
// unless AUTH_PRIVATE_KEY_FILE / AUTH_PUBLIC_KEY_FILE point at stored keys,
// which keeps sessions valid across restarts.
var (
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// TOKEN_EXPIRE_TIME_SEC is the token lifetime in seconds; 0 means tokens
	// never expire.
	TOKEN_EXPIRE_TIME_SEC int
)

// Init prepares the signing key pair and token lifetime. Fatal on failure:
// every authenticated route depends on it.
func Init() {
	privPath := os.Getenv("AUTH_PRIVATE_KEY_FILE")
	pubPath := os.Getenv("AUTH_PUBLIC_KEY_FILE")
	if privPath != "" && pubPath != "" {
		if err := loadKeys(privPath, pubPath); err != nil {
			log.Fatalf("auth: %v", err)
		}
	} else {
		var err error
		publicKey, privateKey, err = ed25519.GenerateKey(nil)
		if err != nil {
			log.Fatalf("auth: failed to generate ed25519 key pair: %v", err)
		}
	}

	TOKEN_EXPIRE_TIME_SEC = parseExpire(os.Getenv("TOKEN_EXPIRE_TIME"))
}

func loadKeys(privPath, pubPath string) error {
	priv, err := os.ReadFile(privPath)
	if err != nil {
		return fmt.Errorf("read private key: %w", err)
	}
	pub, err := os.ReadFile(pubPath)
	if err != nil {
		return fmt.Errorf("read public key: %w", err)
	}
	if len(priv) != ed25519.PrivateKeySize || len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("key files have wrong size for ed25519")
	}
	privateKey = ed25519.PrivateKey(priv)
	publicKey = ed25519.PublicKey(pub)
	return nil
}

// parseExpire interprets TOKEN_EXPIRE_TIME as a Go duration; "never", "0",
// and empty all disable expiry.
func parseExpire(raw string) int {
	if raw == "never" || raw == "0" || raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("auth: failed to parse TOKEN_EXPIRE_TIME: %v", err)
	}
	return int(d.Seconds())
}

// CreateJWT signs a session token carrying the user id as its subject.
func CreateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
	}
	if TOKEN_EXPIRE_TIME_SEC > 0 {
		claims["exp"] = time.Now().Add(time.Duration(TOKEN_EXPIRE_TIME_SEC) * time.Second).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(privateKey)
}

// AuthenticateJWT verifies a session token and returns the user id it was
// issued to.
func AuthenticateJWT(tokenString string) (string, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid jwt claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("missing sub in jwt")
	}
	return sub, nil
}
