// Package cli реализует командный интерфейс (CLI) клиента taskctl.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку локальных учётных данных (access-токена) из конфигурационного файла;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-taskboard/internal/agent/api"
	"github.com/IvanChernomyrdin/go-taskboard/internal/agent/config"
)

// DefaultServerURL — адрес сервера по умолчанию.
const DefaultServerURL = "http://127.0.0.1:3333"

// ErrNotLoggedIn — локально нет токена.
var ErrNotLoggedIn = errors.New("not logged in (run: taskctl login)")

// App содержит состояние CLI-приложения, разделяемое между командами.
type App struct {
	// ServerURL — базовый URL сервера (например, "http://127.0.0.1:3333").
	ServerURL string
	// Insecure отключает проверку TLS-сертификата сервера.
	Insecure bool

	// CredsPath — путь к файлу с сохранённым токеном.
	CredsPath string
	// Creds — загруженные учётные данные. Может быть nil, если загрузка не выполнялась.
	Creds *config.Credentials
}

// Client создаёт API-клиент для текущего ServerURL.
func (a *App) Client() *api.Client {
	return NewAPIClient(a.ServerURL, a.Insecure)
}

// Token возвращает сохранённый токен или ErrNotLoggedIn.
func (a *App) Token() (string, error) {
	if a.Creds == nil || a.Creds.Token == "" {
		return "", ErrNotLoggedIn
	}
	return a.Creds.Token, nil
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// В PersistentPreRunE загружается сохранённый токен. Если --server не задан явно,
// используется сервер, на котором выполнялся login.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "taskctl",
		Short: "taskctl — консольный клиент taskboard (пользователи и задачи)",
		Long: `taskctl — консольный клиент taskboard.

Примеры:
  taskctl register --name Alice --email alice@mail.com
  taskctl login --email alice@mail.com
  taskctl task add --title "Buy milk" --description "2 liters"
  taskctl task list --status pending --search milk
  taskctl task update <id> --status done
  taskctl task delete <id>
  taskctl logout
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.CredsPath == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				app.CredsPath = p
			}

			creds, err := config.Load(app.CredsPath)
			if err != nil {
				return err
			}
			app.Creds = creds

			if f := cmd.Flag("server"); (f == nil || !f.Changed) && creds.Server != "" {
				app.ServerURL = creds.Server
			}
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", DefaultServerURL, "server base URL")
	cmd.PersistentFlags().BoolVar(&app.Insecure, "insecure", false, "skip TLS certificate verification (dev only)")
	cmd.PersistentFlags().StringVar(&app.CredsPath, "credentials", "", "credentials file (default ~/.taskboard/credentials.json)")

	cmd.AddCommand(NewRegisterCmd(app))
	cmd.AddCommand(NewLoginCmd(app))
	cmd.AddCommand(NewLogoutCmd(app))
	cmd.AddCommand(NewTaskCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
//
// При ошибке сообщение выводится в stderr, процесс завершается с кодом 1.
func Execute(buildVersion, buildDate string) {
	// Ctrl+C отменяет запрос к серверу
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd(buildVersion, buildDate).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
