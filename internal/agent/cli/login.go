package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-taskboard/internal/agent/config"
)

// NewLoginCmd создаёт CLI-команду входа.
//
// Полученный access-токен сохраняется в локальный файл вместе с адресом сервера.
//
//	taskctl login --email alice@mail.com
func NewLoginCmd(app *App) *cobra.Command {
	var email, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Логин пользователя (получить access токен)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFrom(cmd, password, passwordStdin)
			if err != nil {
				return err
			}

			token, err := app.Client().Login(cmd.Context(), email, pw)
			if err != nil {
				return err
			}

			if app.Creds == nil {
				app.Creds = &config.Credentials{}
			}
			app.Creds.Token = token
			app.Creds.Server = app.ServerURL

			if err := config.Save(app.CredsPath, app.Creds); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "login ok (token saved)")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for login")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// NewLogoutCmd удаляет сохранённый токен.
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Удалить сохранённый токен",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Clear(app.CredsPath); err != nil {
				return err
			}
			app.Creds = &config.Credentials{}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}
