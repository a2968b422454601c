// Package statictoken verifies self-contained HMAC-signed access tokens.
// It stands in for a full account service: tokens carry the principal
// inline and are validated against a shared secret, so no network call
// is needed on the request path.
package statictoken

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/matchdayhq/squad-engine/internal/domain/user"
	"github.com/matchdayhq/squad-engine/internal/usecase"
)

// Token layout: base64url(user_id|email) + "." + hex(HMAC-SHA256(secret, payload)).
const tokenSeparator = "."

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}

	return &Verifier{secret: []byte(secret)}, nil
}

func (v *Verifier) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	payload, signature, found := strings.Cut(token, tokenSeparator)
	if !found || payload == "" || signature == "" {
		return user.Principal{}, fmt.Errorf("%w: malformed token", usecase.ErrUnauthorized)
	}

	expected := v.sign(payload)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return user.Principal{}, fmt.Errorf("%w: token signature mismatch", usecase.ErrUnauthorized)
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: malformed token payload", usecase.ErrUnauthorized)
	}

	userID, email, _ := strings.Cut(string(decoded), "|")
	if strings.TrimSpace(userID) == "" {
		return user.Principal{}, fmt.Errorf("%w: token carries no user id", usecase.ErrUnauthorized)
	}

	return user.Principal{
		UserID: userID,
		Email:  email,
	}, nil
}

// Issue mints a token for the principal. Used by operational tooling and
// tests; the verifier itself never needs it.
func (v *Verifier) Issue(principal user.Principal) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(principal.UserID + "|" + principal.Email))
	return payload + tokenSeparator + v.sign(payload)
}

func (v *Verifier) sign(payload string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
