package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword читает пароль.
//
// Режимы:
//   - fromStdin=true: читает STDIN полностью (скрипты/CI);
//   - fromStdin=false: спрашивает в терминале со скрытым вводом.
//
// Пустой пароль считается ошибкой.
func readPassword(cmd *cobra.Command, prompt string, fromStdin bool) (string, error) {
	if fromStdin {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		pw := bytes.TrimRight(b, "\r\n")
		if len(pw) == 0 {
			return "", errors.New("empty password on stdin")
		}
		return string(pw), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password or --password-stdin")
	}

	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	pwBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	pw := strings.TrimSpace(string(pwBytes))
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}

// passwordFrom — значение флага --password, иначе ReadPassword.
func passwordFrom(cmd *cobra.Command, flagValue string, fromStdin bool) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return ReadPassword(cmd, "Password: ", fromStdin)
}
