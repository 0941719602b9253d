package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tasktracker/internal/task"
)

func parseID(raw string) (uint32, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, invalidInvocationf("Error: ID must be a positive number")
	}
	return uint32(id), nil
}

func newCreateCommand(a *app) *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.openManager()
			if err != nil {
				return err
			}
			t, err := m.Create(title, description)
			if err != nil {
				return commandFailure(fmt.Errorf("failed to create task: %w", err))
			}
			printCreated(a.stdout, t)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Task's title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task's description")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newReadCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Show a task's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := a.openManager()
			if err != nil {
				return err
			}
			t, err := m.Read(id)
			if errors.Is(err, task.ErrNotFound) {
				printNotFound(a.stdout, err)
				return nil
			}
			if err != nil {
				return commandFailure(err)
			}
			printDetails(a.stdout, t)
			return nil
		},
	}
}

func newUpdateCommand(a *app) *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task's title and/or description",
		Long: `Update a task. Fields whose flag is omitted keep their current value;
passing an empty value (-d "") clears the field.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := a.openManager()
			if err != nil {
				return err
			}
			existing, err := m.Read(id)
			if errors.Is(err, task.ErrNotFound) {
				printNotFound(a.stdout, err)
				return nil
			}
			if err != nil {
				return commandFailure(err)
			}

			// The manager always overwrites both fields; fill omitted ones here.
			if !cmd.Flags().Changed("title") {
				title = existing.Title
			}
			if !cmd.Flags().Changed("description") {
				description = existing.Description
			}

			t, err := m.Update(id, title, description)
			if err != nil {
				return commandFailure(fmt.Errorf("failed to update task: %w", err))
			}
			printUpdated(a.stdout, t)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := a.openManager()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Deleting task %d...\n", id)
			err = m.Delete(id)
			if errors.Is(err, task.ErrNotFound) {
				printNotFound(a.stdout, err)
				return nil
			}
			if err != nil {
				return commandFailure(fmt.Errorf("failed to delete task: %w", err))
			}
			fmt.Fprintf(a.stdout, "Task %d deleted successfully\n", id)
			return nil
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.openManager()
			if err != nil {
				return err
			}
			tasks, stats := m.List()
			printList(a.stdout, tasks, stats)
			return nil
		},
	}
}

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the task count and highest id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.openManager()
			if err != nil {
				return err
			}
			printStats(a.stdout, m.Stats())
			return nil
		},
	}
}

func newInitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty task data file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := task.InitFile(a.cfg.DataFile)
			if err != nil {
				return commandFailure(err)
			}
			if created {
				fmt.Fprintf(a.stdout, "Initialized empty task file at %s\n", a.cfg.DataFile)
			} else {
				fmt.Fprintf(a.stdout, "Task file already exists at %s\n", a.cfg.DataFile)
			}
			return nil
		},
	}
}
