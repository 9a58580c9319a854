package jwtx

import "github.com/golang-jwt/jwt/v5"

// HS256Verifier checks credentials signed by an HS256Signer.
type HS256Verifier struct {
	secret []byte
	issuer string
}

func NewVerifierHS256(secret []byte, issuer string) *HS256Verifier {
	return &HS256Verifier{secret: append([]byte(nil), secret...), issuer: issuer}
}

func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	return parse(tokenStr, AlgorithmHS256, v.issuer, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
}
