package cli

import (
	"fmt"
	"io"
	"strings"

	"tasktracker/internal/task"
)

var listRule = strings.Repeat("-", 50)

func printCreated(w io.Writer, t task.Task) {
	fmt.Fprintln(w, "\nTask created successfully!")
	printFields(w, t)
}

func printUpdated(w io.Writer, t task.Task) {
	fmt.Fprintln(w, "\nTask updated successfully!")
	printFields(w, t)
}

func printFields(w io.Writer, t task.Task) {
	fmt.Fprintf(w, "ID: %d\n", t.ID)
	fmt.Fprintf(w, "Title: %s\n", t.Title)
	fmt.Fprintf(w, "Description: %s\n", t.Description)
}

func printDetails(w io.Writer, t task.Task) {
	fmt.Fprintln(w, "\n|| ===== Task details ===== ||")
	fmt.Fprintf(w, "ID: %d\n", t.ID)
	fmt.Fprintf(w, "Title: %s\n", t.Title)
	fmt.Fprintf(w, "Description:\n %s\n\n", t.Description)
}

func printList(w io.Writer, tasks []task.Task, stats task.Stats) {
	fmt.Fprintln(w, "\n=== Tasks List ===")
	fmt.Fprintln(w, listRule)
	for _, t := range tasks {
		fmt.Fprintf(w, "%d - %s\n", t.ID, t.Title)
		fmt.Fprintln(w, listRule)
	}
	fmt.Fprintf(w, "\nTotal Tasks: %d\n", stats.Total)
}

func printStats(w io.Writer, stats task.Stats) {
	fmt.Fprintf(w, "Total Tasks: %d\n", stats.Total)
	fmt.Fprintf(w, "Last ID: %d\n", stats.LastID)
}

// printNotFound reports a missing task; this is a clean outcome, not a failure.
func printNotFound(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
