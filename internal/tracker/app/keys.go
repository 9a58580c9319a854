package app

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/castrack/pkg/cryptox"
	"github.com/aussiebroadwan/castrack/pkg/jwtx"
)

// InitCredentialKeys builds the signer and matching verifier for the
// configured algorithm.
//
//   - HS256 uses JWT_SECRET. Credentials survive restarts as long as the
//     secret does.
//   - EdDSA loads JWT_PRIVATE_KEY_FILE, generating it on first start.
func InitCredentialKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, jwtx.Verifier, error) {
	switch cfg.JWTAlgorithm {
	case jwtx.AlgorithmEdDSA:
		pemKey, err := cryptox.LoadOrGenerateEd25519Key(cfg.JWTPrivateKeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load EdDSA key: %w", err)
		}

		signer, err := jwtx.NewSignerEdDSA(keyID(pemKey), pemKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create EdDSA signer: %w", err)
		}

		keys := jwtx.NewKeySet()
		if err := keys.AddSigner(signer.(*jwtx.EdDSASigner)); err != nil {
			return nil, nil, err
		}

		logger.Info("credential signer ready",
			"algorithm", signer.Alg(),
			"kid", signer.KID(),
			"key_file", cfg.JWTPrivateKeyFile,
		)
		return signer, jwtx.NewVerifierEdDSA(keys, cfg.JWTIssuer), nil

	default:
		secret := []byte(cfg.JWTSecret)
		signer, err := jwtx.NewSignerHS256(keyID(secret), secret)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create HS256 signer: %w", err)
		}

		logger.Info("credential signer ready", "algorithm", signer.Alg(), "kid", signer.KID())
		return signer, jwtx.NewVerifierHS256(secret, cfg.JWTIssuer), nil
	}
}

// keyID is a short stable identifier that does not reveal the key.
func keyID(material []byte) string {
	sum := sha256.Sum256(material)
	return hex.EncodeToString(sum[:8])
}
