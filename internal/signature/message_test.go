package signature

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "petitionsigner/pkg/domain-errors"
)

func TestMessage(t *testing.T) {
	assert.Equal(t, "C1_sign", Message("C1"))
}

func TestPersonalMessageHashMatchesGeth(t *testing.T) {
	for _, msg := range []string{"", "C1_sign", "héllo wörld", strings.Repeat("x", 300)} {
		assert.Equal(t, accounts.TextHash([]byte(msg)), PersonalMessageHash(msg))
	}
}

func TestRecoverAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(key.PublicKey).Hex()

	sig, err := SignPersonal("C1_sign", key)
	require.NoError(t, err)

	t.Run("27/28 recovery id", func(t *testing.T) {
		got, err := RecoverAddress("C1_sign", sig)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("0/1 recovery id and no prefix", func(t *testing.T) {
		raw, err := hexutil.Decode(sig)
		require.NoError(t, err)
		raw[crypto.RecoveryIDOffset] -= 27

		got, err := RecoverAddress("C1_sign", strings.TrimPrefix(hexutil.Encode(raw), "0x"))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("different message recovers a different address", func(t *testing.T) {
		got, err := RecoverAddress("C2_sign", sig)
		require.NoError(t, err)
		assert.NotEqual(t, want, got)
	})

	t.Run("malformed input", func(t *testing.T) {
		for _, bad := range []string{"", "0x1234", "zz", "0x" + strings.Repeat("00", 65)} {
			_, err := RecoverAddress("C1_sign", bad)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), bad)
		}
	})
}
