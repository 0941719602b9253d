package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Task is one to-do record. Field order here is the field order on disk.
type Task struct {
	ID          uint32 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Stats is derived from the live collection and never persisted.
type Stats struct {
	Total  int
	LastID uint32
}

// record is the on-disk shape used while decoding; pointers distinguish a
// missing field from a zero value.
type record struct {
	ID          *uint32 `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// UnmarshalJSON matches keys exactly as they are written on disk and rejects a
// key that appears twice. Other keys are ignored.
func (r *record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("task must be an object, got %s", data)
	}

	var fresh record
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if seen[key] {
			return fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = true

		var dst any
		switch key {
		case "id":
			dst = &fresh.ID
		case "title":
			dst = &fresh.Title
		case "description":
			dst = &fresh.Description
		default:
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = fresh
	return nil
}

func (r *record) toTask(index int) (Task, error) {
	var errs []error
	if r.ID == nil {
		errs = append(errs, fmt.Errorf("task[%d]: id is required", index))
	}
	if r.Title == nil {
		errs = append(errs, fmt.Errorf("task[%d]: title is required", index))
	}
	if r.Description == nil {
		errs = append(errs, fmt.Errorf("task[%d]: description is required", index))
	}
	if len(errs) > 0 {
		return Task{}, errors.Join(errs...)
	}
	return Task{ID: *r.ID, Title: *r.Title, Description: *r.Description}, nil
}

func tasksFromRecords(records []*record) ([]Task, error) {
	if records == nil {
		return nil, errors.New("document must be an array of tasks (not null)")
	}
	tasks := make([]Task, 0, len(records))
	seen := make(map[uint32]int, len(records))
	for i, r := range records {
		if r == nil {
			return nil, fmt.Errorf("task[%d]: must be an object (not null)", i)
		}
		t, err := r.toTask(i)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("task[%d]: duplicate id %d (also at task[%d])", i, t.ID, prev)
		}
		seen[t.ID] = i
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func statsOf(tasks []Task) Stats {
	var last uint32
	for _, t := range tasks {
		if t.ID > last {
			last = t.ID
		}
	}
	return Stats{Total: len(tasks), LastID: last}
}
