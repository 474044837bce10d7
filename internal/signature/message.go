package signature

import (
	"crypto/ecdsa"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"

	dErrors "petitionsigner/pkg/domain-errors"
)

// MessageSuffix is appended to the contract id to form the signed message.
const MessageSuffix = "_sign"

const personalMessagePrefix = "\x19Ethereum Signed Message:\n"

// Message returns the exact string a wallet signs for a contract.
func Message(contractID string) string {
	return contractID + MessageSuffix
}

// PersonalMessageHash is the Keccak-256 digest wallets sign for personal_sign:
// keccak256("\x19Ethereum Signed Message:\n" + len(message) + message).
func PersonalMessageHash(message string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(personalMessagePrefix))
	h.Write([]byte(strconv.Itoa(len(message))))
	h.Write([]byte(message))
	return h.Sum(nil)
}

// RecoverAddress returns the checksummed address that produced sigHex over
// message. Both 27/28 and 0/1 recovery ids are accepted.
func RecoverAddress(message, sigHex string) (string, error) {
	sig, err := hexutil.Decode(withHexPrefix(strings.TrimSpace(sigHex)))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInvalidInput, "signature is not valid hex")
	}
	if len(sig) != crypto.SignatureLength {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}

	sig = append([]byte(nil), sig...)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(PersonalMessageHash(message), sig)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInvalidInput, "signature recovery failed")
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// SignPersonal signs message the way a browser wallet does for personal_sign,
// returning a 0x-prefixed signature with a 27/28 recovery id.
func SignPersonal(message string, key *ecdsa.PrivateKey) (string, error) {
	sig, err := crypto.Sign(PersonalMessageHash(message), key)
	if err != nil {
		return "", err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

func withHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return "0x" + s[2:]
	}
	return "0x" + s
}
