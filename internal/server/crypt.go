package server

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"

	"character-guessr/internal/game"
)

// The answer payload is obscured, not protected: the secret is shared with
// every client, so this only keeps the answer out of casual inspection of
// client-bound traffic. Any real anti-cheat would need server-side-only
// comparison instead.

func answerKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

func encryptAnswer(secret string, answer *game.Character) (string, error) {
	plaintext, err := json.Marshal(answer)
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher(answerKey(secret))
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func decryptAnswer(secret, payload string) (*game.Character, error) {
	sealed, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(answerKey(secret))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("answer payload too short")
	}
	plaintext, err := gcm.Open(nil, sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	var answer game.Character
	if err := json.Unmarshal(plaintext, &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}
