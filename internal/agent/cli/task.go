package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-taskboard/internal/agent/api"
	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
	sm "github.com/IvanChernomyrdin/go-taskboard/internal/shared/models"
)

// NewTaskCmd — группа команд для задач текущего пользователя.
func NewTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Задачи текущего пользователя",
	}

	cmd.AddCommand(newTaskAddCmd(app))
	cmd.AddCommand(newTaskListCmd(app))
	cmd.AddCommand(newTaskUpdateCmd(app))
	cmd.AddCommand(newTaskDeleteCmd(app))
	return cmd
}

// tokenErr подсказывает перелогиниться, если сервер отверг токен.
func tokenErr(err error) error {
	if errors.Is(err, serr.ErrUnauthorized) {
		return fmt.Errorf("%w (token expired? run: taskctl login)", err)
	}
	return err
}

func newTaskAddCmd(app *App) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Создать задачу",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.Token()
			if err != nil {
				return err
			}

			t, err := app.Client().CreateTask(cmd.Context(), token, sm.CreateTaskRequest{
				Title:       title,
				Description: &description,
			})
			if err != nil {
				return tokenErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s [%s] %s\n", t.ID, t.Status, t.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "task title (min 3 chars)")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var q api.TaskQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список задач (поиск по заголовку, фильтр по статусу)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.Token()
			if err != nil {
				return err
			}

			list, err := app.Client().ListTasks(cmd.Context(), token, q)
			if err != nil {
				return tokenErr(err)
			}
			return printTasks(cmd.OutOrStdout(), list)
		},
	}

	cmd.Flags().IntVar(&q.Page, "page", 0, "page number, from 1")
	cmd.Flags().IntVar(&q.PageSize, "page-size", 0, "page size, 1..50")
	cmd.Flags().StringVar(&q.Search, "search", "", "case-insensitive title substring")
	cmd.Flags().StringVar(&q.Status, "status", "", "pending | in_progress | done")
	return cmd
}

func printTasks(out io.Writer, list sm.TaskList) error {
	if len(list.Items) == 0 {
		fmt.Fprintln(out, "no tasks")
	} else {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tUPDATED")
		for _, t := range list.Items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Title, t.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	p := list.Pagination
	fmt.Fprintf(out, "page %d/%d, total %d\n", p.CurrentPage, p.TotalPages, p.TotalItems)
	return nil
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var title, description, status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Изменить заголовок, описание или статус задачи",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.Token()
			if err != nil {
				return err
			}

			// отправляем только явно заданные флаги
			var req sm.UpdateTaskRequest
			if cmd.Flags().Changed("title") {
				req.Title = &title
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if cmd.Flags().Changed("status") {
				req.Status = &status
			}

			t, err := app.Client().UpdateTask(cmd.Context(), token, args[0], req)
			if err != nil {
				return tokenErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s [%s] %s\n", t.ID, t.Status, t.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&status, "status", "", "pending | in_progress | done")
	return cmd
}

func newTaskDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить задачу",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.Token()
			if err != nil {
				return err
			}
			if err := app.Client().DeleteTask(cmd.Context(), token, args[0]); err != nil {
				return tokenErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
