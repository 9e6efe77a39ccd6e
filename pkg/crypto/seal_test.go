package crypto

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	return []byte("01234567890123456789012345678901")
}

func TestNewSealerValidatesKeySize(t *testing.T) {
	tests := []struct {
		name        string
		key         []byte
		expectError bool
	}{
		{
			name: "Chave de 32 bytes é aceita",
			key:  testKey(),
		},
		{
			name:        "Chave curta é rejeitada",
			key:         []byte("curta"),
			expectError: true,
		},
		{
			name:        "Chave vazia é rejeitada",
			key:         nil,
			expectError: true,
		},
		{
			name:        "Chave longa é rejeitada",
			key:         []byte("0123456789012345678901234567890123456789"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealer, err := NewSealer(tt.key)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, sealer)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, sealer)
		})
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	sealer, err := NewSealer(testKey())
	require.NoError(t, err)

	token := "EAABsbCS1iHgBAJZAtoken-de-exemplo"

	sealed, err := sealer.Seal(token)
	require.NoError(t, err)
	assert.NotEqual(t, token, sealed)

	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, token, opened)
}

func TestSealProducesDistinctCiphertexts(t *testing.T) {
	sealer, err := NewSealer(testKey())
	require.NoError(t, err)

	first, err := sealer.Seal("mesmo-token")
	require.NoError(t, err)
	second, err := sealer.Seal("mesmo-token")
	require.NoError(t, err)

	// Nonce aleatório por selagem
	assert.NotEqual(t, first, second)
}

func TestOpenRejectsInvalidInput(t *testing.T) {
	sealer, err := NewSealer(testKey())
	require.NoError(t, err)

	t.Run("Entrada que não é base64 falha", func(t *testing.T) {
		_, err := sealer.Open("não-base64!!!")
		assert.Error(t, err)
	})

	t.Run("Token truncado falha", func(t *testing.T) {
		short := base64.StdEncoding.EncodeToString([]byte("curto"))
		_, err := sealer.Open(short)
		assert.Error(t, err)
	})

	t.Run("Token adulterado falha na autenticação", func(t *testing.T) {
		sealed, err := sealer.Seal("token-original")
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(sealed)
		require.NoError(t, err)
		raw[len(raw)-1] ^= 0xff
		tampered := base64.StdEncoding.EncodeToString(raw)

		_, err = sealer.Open(tampered)
		assert.Error(t, err)
	})

	t.Run("Chave diferente não abre o token", func(t *testing.T) {
		other, err := NewSealer([]byte(strings.Repeat("x", 32)))
		require.NoError(t, err)

		sealed, err := sealer.Seal("token-original")
		require.NoError(t, err)

		_, err = other.Open(sealed)
		assert.Error(t, err)
	})
}
