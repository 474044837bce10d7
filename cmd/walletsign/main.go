// Package main provides a developer CLI that plays the part of a browser wallet:
// it signs "<contractId>_sign" with a local key and recovers signers from
// signatures. Keys handled here are for local testing only.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"petitionsigner/internal/signature"
)

// exitMismatch is returned by recover when -expect names a different signer.
const exitMismatch = 2

type signOutput struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
	Address   string `json:"address"`
}

type recoverOutput struct {
	Message  string `json:"message"`
	Address  string `json:"address"`
	Expected string `json:"expected,omitempty"`
	Mismatch bool   `json:"mismatch"`
}

type keyOutput struct {
	PrivateKey string `json:"private_key"`
	Address    string `json:"address"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	var err error
	code := 0
	switch args[0] {
	case "sign":
		err = runSign(args[1:], stdout)
	case "recover":
		code, err = runRecover(args[1:], stdout)
	case "keygen":
		err = runKeygen(args[1:], stdout)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return code
}

func runSign(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	keyHex := fs.String("key", os.Getenv("WALLET_KEY"), "Hex-encoded secp256k1 private key (default $WALLET_KEY)")
	contractID := fs.String("contract", "", "Contract identifier to sign")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *keyHex == "" || *contractID == "" {
		return errors.New("sign requires -key and -contract")
	}

	wallet, err := signature.NewKeyWallet(*keyHex)
	if err != nil {
		return err
	}
	message := signature.Message(*contractID)
	sig, err := wallet.PersonalSign(context.Background(), message, wallet.Address())
	if err != nil {
		return err
	}

	out := signOutput{Message: message, Signature: sig, Address: wallet.Address()}
	if *jsonOutput {
		return printJSON(stdout, out)
	}
	fmt.Fprintf(stdout, "Message:   %s\n", out.Message)
	fmt.Fprintf(stdout, "Address:   %s\n", out.Address)
	fmt.Fprintf(stdout, "Signature: %s\n", out.Signature)
	return nil
}

func runRecover(args []string, stdout io.Writer) (int, error) {
	fs := flag.NewFlagSet("recover", flag.ContinueOnError)
	contractID := fs.String("contract", "", "Contract identifier that was signed")
	sig := fs.String("sig", "", "Hex-encoded 65-byte signature")
	expect := fs.String("expect", "", "Declared address; exit 2 when the signer differs")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if *contractID == "" || *sig == "" {
		return 0, errors.New("recover requires -contract and -sig")
	}

	message := signature.Message(*contractID)
	address, err := signature.RecoverAddress(message, strings.TrimSpace(*sig))
	if err != nil {
		return 0, err
	}

	out := recoverOutput{
		Message:  message,
		Address:  address,
		Expected: *expect,
		Mismatch: signature.Mismatched(*expect, address),
	}
	if *jsonOutput {
		if err := printJSON(stdout, out); err != nil {
			return 0, err
		}
	} else {
		fmt.Fprintf(stdout, "Message: %s\n", out.Message)
		fmt.Fprintf(stdout, "Signer:  %s\n", out.Address)
		if out.Mismatch {
			fmt.Fprintf(stdout, "Mismatch: declared %s\n", out.Expected)
		}
	}
	if out.Mismatch {
		return exitMismatch, nil
	}
	return 0, nil
}

func runKeygen(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}
	out := keyOutput{
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}
	if *jsonOutput {
		return printJSON(stdout, out)
	}
	fmt.Fprintf(stdout, "Private key: %s\n", out.PrivateKey)
	fmt.Fprintf(stdout, "Address:     %s\n", out.Address)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `walletsign - sign and verify petition contract signatures locally

WARNING: keys passed on the command line end up in shell history.
         Only use throwaway development keys.

Usage:
  walletsign <command> [flags]

Commands:
  sign      Sign "<contract>_sign" as an Ethereum personal message
  recover   Recover the signer address of a signature
  keygen    Generate a throwaway key

Examples:
  walletsign keygen
  walletsign sign -key 0x4c08... -contract C1
  walletsign recover -contract C1 -sig 0x5f1e... -expect 0xAbC...

Use "walletsign <command> -h" for more information about a command.`)
}
