package crypto

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

// Sealer sela e abre tokens de API das contas de anúncio. Os tokens ficam
// armazenados selados no banco e são abertos apenas no momento do fetch;
// falha de abertura é tratada como falha permanente da conta
type Sealer struct {
	key []byte
}

// NewSealer cria um Sealer a partir de uma chave de 32 bytes
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.Errorf("chave de selagem deve ter %d bytes, recebeu %d", chacha20poly1305.KeySize, len(key))
	}
	return &Sealer{key: key}, nil
}

// Seal cifra o token e retorna nonce+ciphertext em base64
func (s *Sealer) Seal(plain string) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", errors.Wrap(err, "erro ao inicializar cifra")
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(err, "erro ao gerar nonce")
	}

	sealed := aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decifra um token selado por Seal
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", errors.Wrap(err, "token selado não é base64 válido")
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", errors.Wrap(err, "erro ao inicializar cifra")
	}

	if len(raw) < aead.NonceSize() {
		return "", errors.New("token selado truncado")
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.Wrap(err, "erro ao abrir token selado")
	}

	return string(plain), nil
}
