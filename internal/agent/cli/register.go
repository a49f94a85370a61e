package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRegisterCmd создаёт CLI-команду для регистрации нового пользователя.
//
// Пароль можно передать флагом, через STDIN (--password-stdin) или ввести в терминале.
//
//	taskctl register --name Alice --email alice@mail.com
func NewRegisterCmd(app *App) *cobra.Command {
	var name, email, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Регистрация нового пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFrom(cmd, password, passwordStdin)
			if err != nil {
				return err
			}

			u, err := app.Client().Register(cmd.Context(), name, email, pw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registration successful: %s <%s> id=%s\n", u.Name, u.Email, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "user name (min 3 chars)")
	cmd.Flags().StringVar(&email, "email", "", "email for registration")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
