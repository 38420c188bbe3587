package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/term"
)

// LoadKey parses a hex private key, with or without 0x.
func LoadKey(hexKey string) (*ecdsa.PrivateKey, error) {
	s := strings.TrimSpace(hexKey)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, fmt.Errorf("wallet: invalid private key: %w", err)
	}
	return key, nil
}

// LoadKeystore decrypts a V3 keystore file.
func LoadKeystore(path, passphrase string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wallet: reading keystore: %w", err)
	}

	key, err := keystore.DecryptKey(data, passphrase)
	if err != nil {
		return nil, fmt.Errorf("wallet: decrypting keystore: %w", err)
	}
	return key.PrivateKey, nil
}

// PromptPassphrase reads a passphrase from the terminal without echo.
// The prompt goes to w.
func PromptPassphrase(w io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(w, prompt)

	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("wallet: passphrase input failed: %w", err)
	}
	return string(pw), nil
}
