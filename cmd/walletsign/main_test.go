package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func runJSON(t *testing.T, args []string, out any) int {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append(args, "-json"), &stdout, &stderr)
	if code != 1 {
		require.NoError(t, json.Unmarshal(stdout.Bytes(), out), stderr.String())
	}
	return code
}

func TestSignThenRecover(t *testing.T) {
	key, err := crypto.HexToECDSA(devKey)
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(key.PublicKey).Hex()

	var signed signOutput
	require.Equal(t, 0, runJSON(t, []string{"sign", "-key", "0x" + devKey, "-contract", "C1"}, &signed))
	assert.Equal(t, "C1_sign", signed.Message)
	assert.Equal(t, want, signed.Address)

	var recovered recoverOutput
	require.Equal(t, 0, runJSON(t, []string{"recover", "-contract", "C1", "-sig", signed.Signature, "-expect", want}, &recovered))
	assert.Equal(t, want, recovered.Address)
	assert.False(t, recovered.Mismatch)
}

func TestRecoverReportsMismatch(t *testing.T) {
	var signed signOutput
	require.Equal(t, 0, runJSON(t, []string{"sign", "-key", devKey, "-contract", "C1"}, &signed))

	var recovered recoverOutput
	code := runJSON(t, []string{"recover", "-contract", "C1", "-sig", signed.Signature, "-expect", "0x0000000000000000000000000000000000000001"}, &recovered)

	assert.Equal(t, exitMismatch, code)
	assert.True(t, recovered.Mismatch)
}

func TestRecoverWrongContractYieldsDifferentSigner(t *testing.T) {
	var signed signOutput
	require.Equal(t, 0, runJSON(t, []string{"sign", "-key", devKey, "-contract", "C1"}, &signed))

	var recovered recoverOutput
	require.Equal(t, 0, runJSON(t, []string{"recover", "-contract", "C2", "-sig", signed.Signature}, &recovered))

	assert.NotEqual(t, signed.Address, recovered.Address)
}

func TestKeygen(t *testing.T) {
	var out keyOutput
	require.Equal(t, 0, runJSON(t, []string{"keygen"}, &out))

	raw, err := hexutil.Decode(out.PrivateKey)
	require.NoError(t, err)
	key, err := crypto.ToECDSA(raw)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), out.Address)
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"verify"}},
		{"sign without key", []string{"sign", "-key", "", "-contract", "C1"}},
		{"recover without sig", []string{"recover", "-contract", "C1"}},
		{"malformed signature", []string{"recover", "-contract", "C1", "-sig", "0x1234"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, 1, run(tt.args, &stdout, &stderr))
			assert.NotEmpty(t, stderr.String())
		})
	}
}
