package tests

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-taskboard/internal/agent/cli"
	"github.com/IvanChernomyrdin/go-taskboard/internal/agent/config"
)

func newApp(t *testing.T, serverURL, token string) *cli.App {
	t.Helper()
	return &cli.App{
		ServerURL: serverURL,
		CredsPath: filepath.Join(t.TempDir(), "creds.json"),
		Creds:     &config.Credentials{Token: token},
	}
}

func run(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// stubPassword подменяет чтение пароля из терминала.
func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := cli.ReadPassword
	cli.ReadPassword = func(*cobra.Command, string, bool) (string, error) { return pw, nil }
	t.Cleanup(func() { cli.ReadPassword = orig })
}
