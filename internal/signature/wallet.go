package signature

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet is the account-selection and personal-message-signing capability of a
// wallet provider.
type Wallet interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	PersonalSign(ctx context.Context, message, account string) (string, error)
}

// ErrUserRejected is returned by wallets when the user declines a request.
var ErrUserRejected = errors.New("user rejected the request")

// KeyWallet signs with an in-process private key.
type KeyWallet struct {
	key     *ecdsa.PrivateKey
	address string
}

// NewKeyWallet parses a hex private key, with or without 0x prefix.
func NewKeyWallet(hexKey string) (*KeyWallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, err
	}
	return KeyWalletFromKey(key), nil
}

func KeyWalletFromKey(key *ecdsa.PrivateKey) *KeyWallet {
	return &KeyWallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}
}

// Address is the checksummed address of the key.
func (w *KeyWallet) Address() string {
	return w.address
}

func (w *KeyWallet) RequestAccounts(context.Context) ([]string, error) {
	return []string{w.address}, nil
}

func (w *KeyWallet) PersonalSign(ctx context.Context, message, account string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.EqualFold(account, w.address) {
		return "", ErrUserRejected
	}
	return SignPersonal(message, w.key)
}

// PresignedWallet replays a signature produced elsewhere, typically by a browser
// wallet whose result was posted to the server. An empty Account grants no
// address; an empty Signature is a declined signing request.
type PresignedWallet struct {
	Account   string
	Signature string
}

func (w PresignedWallet) RequestAccounts(context.Context) ([]string, error) {
	account := strings.TrimSpace(w.Account)
	if account == "" {
		return nil, nil
	}
	return []string{account}, nil
}

func (w PresignedWallet) PersonalSign(_ context.Context, _, _ string) (string, error) {
	if strings.TrimSpace(w.Signature) == "" {
		return "", ErrUserRejected
	}
	return strings.TrimSpace(w.Signature), nil
}
