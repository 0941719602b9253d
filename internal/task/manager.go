package task

import (
	"math"
	"slices"

	"go.uber.org/zap"

	"tasktracker/internal/storage"
)

// Manager is the sole owner of the task collection and its data file.
//
// It is not safe for concurrent use; one Manager serves one invocation.
type Manager struct {
	file   *storage.File
	tasks  []Task
	logger *zap.Logger
}

// NewManager loads the collection at path. A nil logger disables logging.
//
// Read failures (missing file, permission) return *StorageError; content that
// is not a valid task array returns *FormatError.
func NewManager(path string, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	file, err := storage.NewFile(path)
	if err != nil {
		return nil, &StorageError{Op: "open", Path: path, Cause: err}
	}

	data, err := file.Read()
	if err != nil {
		return nil, &StorageError{Op: "read", Path: file.Path(), Cause: err}
	}

	var records []*record
	if err := storage.DecodeStrict(data, &records); err != nil {
		return nil, &FormatError{Path: file.Path(), Cause: err}
	}
	tasks, err := tasksFromRecords(records)
	if err != nil {
		return nil, &FormatError{Path: file.Path(), Cause: err}
	}

	logger.Debug("Loaded tasks", zap.String("path", file.Path()), zap.Int("total", len(tasks)))
	return &Manager{file: file, tasks: tasks, logger: logger}, nil
}

// InitFile writes an empty collection to path when no file exists there.
// It reports whether a file was created; an existing file is never touched.
func InitFile(path string) (bool, error) {
	file, err := storage.NewFile(path)
	if err != nil {
		return false, &StorageError{Op: "open", Path: path, Cause: err}
	}
	exists, err := file.Exists()
	if err != nil {
		return false, &StorageError{Op: "stat", Path: file.Path(), Cause: err}
	}
	if exists {
		return false, nil
	}
	data, err := storage.MarshalStable([]Task{})
	if err != nil {
		return false, &StorageError{Op: "encode", Path: file.Path(), Cause: err}
	}
	if err := file.Write(data); err != nil {
		return false, &StorageError{Op: "write", Path: file.Path(), Cause: err}
	}
	return true, nil
}

func (m *Manager) Path() string {
	return m.file.Path()
}

// Stats computes the total and the highest id (0 when empty).
func (m *Manager) Stats() Stats {
	return statsOf(m.tasks)
}

// List returns a copy of the collection in insertion order plus its stats.
func (m *Manager) List() ([]Task, Stats) {
	return slices.Clone(m.tasks), m.Stats()
}

// Create appends a task with id last_id+1 and persists the collection.
func (m *Manager) Create(title, description string) (Task, error) {
	last := m.Stats().LastID
	if last == math.MaxUint32 {
		return Task{}, ErrIDExhausted
	}
	t := Task{ID: last + 1, Title: title, Description: description}

	prev := m.tasks
	m.tasks = append(slices.Clip(m.tasks), t)
	if err := m.persist(); err != nil {
		m.tasks = prev
		return Task{}, err
	}
	m.logger.Debug("Created task", zap.String("op", "create"), zap.Uint32("id", t.ID), zap.String("path", m.Path()))
	return t, nil
}

func (m *Manager) Read(id uint32) (Task, error) {
	i := m.indexOf(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	return m.tasks[i], nil
}

// Update overwrites title and description unconditionally; id and position
// are unchanged. Callers that want to keep a field pass its current value.
func (m *Manager) Update(id uint32, title, description string) (Task, error) {
	i := m.indexOf(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}

	old := m.tasks[i]
	m.tasks[i].Title = title
	m.tasks[i].Description = description
	if err := m.persist(); err != nil {
		m.tasks[i] = old
		return Task{}, err
	}
	m.logger.Debug("Updated task", zap.String("op", "update"), zap.Uint32("id", id), zap.String("path", m.Path()))
	return m.tasks[i], nil
}

// Delete removes the task with id, keeping the relative order of the rest.
func (m *Manager) Delete(id uint32) error {
	i := m.indexOf(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}

	prev := m.tasks
	m.tasks = slices.Delete(slices.Clone(m.tasks), i, i+1)
	if err := m.persist(); err != nil {
		m.tasks = prev
		return err
	}
	m.logger.Debug("Deleted task", zap.String("op", "delete"), zap.Uint32("id", id), zap.String("path", m.Path()))
	return nil
}

func (m *Manager) indexOf(id uint32) int {
	return slices.IndexFunc(m.tasks, func(t Task) bool { return t.ID == id })
}

func (m *Manager) persist() error {
	tasks := m.tasks
	if tasks == nil {
		// Serialize as [] rather than null.
		tasks = []Task{}
	}
	data, err := storage.MarshalStable(tasks)
	if err != nil {
		return &StorageError{Op: "encode", Path: m.Path(), Cause: err}
	}
	if err := m.file.Write(data); err != nil {
		m.logger.Warn("Failed to persist tasks", zap.String("path", m.Path()), zap.Error(err))
		return &StorageError{Op: "write", Path: m.Path(), Cause: err}
	}
	return nil
}
