package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/castrack/pkg/cryptox"
	"github.com/aussiebroadwan/castrack/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "castrack-test"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestHS256SignAndVerify(t *testing.T) {
	signer, err := jwtx.NewSignerHS256("hs-1", testSecret)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())
	require.Equal(t, jwtx.AlgorithmHS256, signer.Alg())

	claims := jwtx.NewClaims("acc-1", "teacher", "t@fountainheadschools.org", testIssuer, time.Hour, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := jwtx.NewVerifierHS256(testSecret, testIssuer).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "acc-1", got.Subject)
	require.Equal(t, "teacher", got.Role)
	require.Equal(t, "t@fountainheadschools.org", got.Email)
}

func TestHS256RejectsShortSecret(t *testing.T) {
	_, err := jwtx.NewSignerHS256("hs", []byte("short"))
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}

func TestHS256VerifyFailures(t *testing.T) {
	signer, err := jwtx.NewSignerHS256("hs-1", testSecret)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256(testSecret, testIssuer)
	now := time.Now().UTC()

	t.Run("malformed", func(t *testing.T) {
		_, err := verifier.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewClaims("a", "student", "", testIssuer, time.Hour, now))
		require.NoError(t, err)

		other := jwtx.NewVerifierHS256([]byte(strings.Repeat("x", 32)), testIssuer)
		_, err = other.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewClaims("a", "student", "", "someone-else", time.Hour, now))
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewClaims("a", "student", "", testIssuer, time.Minute, now.Add(-time.Hour)))
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("missing role", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewClaims("a", "", "", testIssuer, time.Hour, now))
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})
}

func TestEdDSASignAndVerify(t *testing.T) {
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA("ed-1", pemKey)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())
	require.Equal(t, jwtx.AlgorithmEdDSA, signer.Alg())

	keys := jwtx.NewKeySet()
	require.False(t, keys.IsReady())
	require.NoError(t, keys.AddSigner(signer.(*jwtx.EdDSASigner)))
	require.True(t, keys.IsReady())

	token, err := signer.Sign(jwtx.NewClaims("acc-9", "admin", "", testIssuer, time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	got, err := jwtx.NewVerifierEdDSA(keys, testIssuer).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "acc-9", got.Subject)
	require.Equal(t, "admin", got.Role)
}

func TestEdDSAUnknownKid(t *testing.T) {
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("ed-unknown", pemKey)
	require.NoError(t, err)

	token, err := signer.Sign(jwtx.NewClaims("a", "student", "", testIssuer, time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	_, err = jwtx.NewVerifierEdDSA(jwtx.NewKeySet(), testIssuer).Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestAlgorithmsDoNotCrossVerify(t *testing.T) {
	hs, err := jwtx.NewSignerHS256("hs", testSecret)
	require.NoError(t, err)
	token, err := hs.Sign(jwtx.NewClaims("a", "student", "", testIssuer, time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	_, err = jwtx.NewVerifierEdDSA(jwtx.NewKeySet(), testIssuer).Verify(token)
	require.Error(t, err)
}
