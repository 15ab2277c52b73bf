package testutil

import (
	"context"
	"sync"

	"github.com/Norgate-AV/tyburn/pkg/widget"
)

// MockScheduler runs tasks inline on the calling goroutine
type MockScheduler struct {
	mu          sync.Mutex
	invocations int
	err         error
	dispatch    bool
}

func NewMockScheduler() *MockScheduler {
	return &MockScheduler{}
}

func (m *MockScheduler) InvokeLater(task func(ctx context.Context)) error {
	m.mu.Lock()
	err := m.err
	m.invocations++
	m.mu.Unlock()

	if err != nil {
		return err
	}

	task(context.Background())
	return nil
}

func (m *MockScheduler) IsDispatchContext(context.Context) bool {
	return m.dispatch
}

// Invocations returns how many tasks were handed over
func (m *MockScheduler) Invocations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invocations
}

// Helper methods for fluent configuration
func (m *MockScheduler) WithError(err error) *MockScheduler {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
	return m
}

func (m *MockScheduler) WithDispatchContext(on bool) *MockScheduler {
	m.dispatch = on
	return m
}

// MockHeadlessChecker returns a fixed answer
type MockHeadlessChecker struct {
	Err   error
	Calls int
}

func NewMockHeadlessChecker() *MockHeadlessChecker {
	return &MockHeadlessChecker{}
}

func (m *MockHeadlessChecker) Check() error {
	m.Calls++
	return m.Err
}

func (m *MockHeadlessChecker) WithError(err error) *MockHeadlessChecker {
	m.Err = err
	return m
}

// KeyRecord is one key event seen by a RecordingKeyListener
type KeyRecord struct {
	ID   widget.KeyEventID
	Code widget.KeyCode
	Char rune
}

// RecordingKeyListener records every key event it receives. It is
// notified on the UI thread and read from tests, hence the lock.
type RecordingKeyListener struct {
	mu      sync.Mutex
	records []KeyRecord
}

func NewRecordingKeyListener() *RecordingKeyListener {
	return &RecordingKeyListener{}
}

func (r *RecordingKeyListener) record(e *widget.KeyEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, KeyRecord{ID: e.ID, Code: e.Code, Char: e.Char})
}

func (r *RecordingKeyListener) KeyPressed(e *widget.KeyEvent)  { r.record(e) }
func (r *RecordingKeyListener) KeyTyped(e *widget.KeyEvent)    { r.record(e) }
func (r *RecordingKeyListener) KeyReleased(e *widget.KeyEvent) { r.record(e) }

// Records returns a copy of what was seen so far
func (r *RecordingKeyListener) Records() []KeyRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]KeyRecord(nil), r.records...)
}

// RecordingActionListener counts action events
type RecordingActionListener struct {
	mu       sync.Mutex
	commands []string
}

func NewRecordingActionListener() *RecordingActionListener {
	return &RecordingActionListener{}
}

func (r *RecordingActionListener) ActionPerformed(e widget.ActionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, e.Command)
}

// Count returns the number of events received
func (r *RecordingActionListener) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.commands)
}

// Commands returns the command strings received, in order
func (r *RecordingActionListener) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commands...)
}

// MockAction is a bindable action that counts invocations
type MockAction struct {
	mu      sync.Mutex
	enabled bool
	calls   int
}

func NewMockAction() *MockAction {
	return &MockAction{enabled: true}
}

func (a *MockAction) ActionPerformed(widget.ActionEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
}

func (a *MockAction) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

func (a *MockAction) WithEnabled(enabled bool) *MockAction {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()
	return a
}

// Calls returns how many times the action ran
func (a *MockAction) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}
