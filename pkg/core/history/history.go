package history

// DefaultCapacity is the number of undo steps kept
const DefaultCapacity = 50

const (
	InitialLabel = "Initial state"
	ResetLabel   = "Reset"
)

// Snapshot pairs a state with the label of the action that produced it
type Snapshot[T any] struct {
	State T
	Label string
}

// Store keeps the present state together with bounded undo and redo stacks.
// It is the only writer of the present state. Not safe for concurrent use.
type Store[T comparable] struct {
	past     []Snapshot[T] // oldest first
	present  Snapshot[T]
	future   []Snapshot[T] // next redo first
	capacity int
	observer func(Snapshot[T])
}

type Option[T comparable] func(*Store[T])

// WithCapacity bounds the undo stack; values below 1 are ignored
func WithCapacity[T comparable](n int) Option[T] {
	return func(s *Store[T]) {
		if n > 0 {
			s.capacity = n
		}
	}
}

func WithInitialLabel[T comparable](label string) Option[T] {
	return func(s *Store[T]) {
		s.present.Label = label
	}
}

// WithObserver registers fn to be called whenever the present state changes
func WithObserver[T comparable](fn func(Snapshot[T])) Option[T] {
	return func(s *Store[T]) {
		s.observer = fn
	}
}

func New[T comparable](initial T, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		present:  Snapshot[T]{State: initial, Label: InitialLabel},
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Commit applies mutate to the present state. Returning the present value unchanged
// records nothing. Reports whether a new entry was recorded.
func (s *Store[T]) Commit(label string, mutate func(T) T) bool {
	return s.Replace(label, mutate(s.present.State))
}

// Replace sets next as the present state, discarding any redo entries
func (s *Store[T]) Replace(label string, next T) bool {
	if next == s.present.State {
		return false
	}
	s.past = append(s.past, s.present)
	if len(s.past) > s.capacity {
		s.past = append(s.past[:0:0], s.past[len(s.past)-s.capacity:]...)
	}
	s.present = Snapshot[T]{State: next, Label: label}
	s.future = nil
	s.notify()
	return true
}

// Undo steps back one entry and returns the label of the action undone
func (s *Store[T]) Undo() (string, bool) {
	if len(s.past) == 0 {
		return "", false
	}
	undone := s.present.Label
	last := len(s.past) - 1
	s.future = append([]Snapshot[T]{s.present}, s.future...)
	s.present = s.past[last]
	s.past = s.past[:last]
	s.notify()
	return undone, true
}

// Redo steps forward one entry and returns the label of the action restored
func (s *Store[T]) Redo() (string, bool) {
	if len(s.future) == 0 {
		return "", false
	}
	next := s.future[0]
	s.past = append(s.past, s.present)
	s.present = next
	s.future = s.future[1:]
	s.notify()
	return next.Label, true
}

// Reset discards all history and starts again from state
func (s *Store[T]) Reset(state T) {
	s.past = nil
	s.future = nil
	s.present = Snapshot[T]{State: state, Label: ResetLabel}
	s.notify()
}

func (s *Store[T]) notify() {
	if s.observer != nil {
		s.observer(s.present)
	}
}

func (s *Store[T]) Present() T {
	return s.present.State
}

// Label returns the label of the action that produced the present state
func (s *Store[T]) Label() string {
	return s.present.Label
}

func (s *Store[T]) CanUndo() bool {
	return len(s.past) > 0
}

func (s *Store[T]) CanRedo() bool {
	return len(s.future) > 0
}

func (s *Store[T]) PastLen() int {
	return len(s.past)
}

func (s *Store[T]) FutureLen() int {
	return len(s.future)
}

// UndoLabels lists the labels that successive undos would report, most recent first
func (s *Store[T]) UndoLabels() []string {
	if len(s.past) == 0 {
		return nil
	}
	labels := []string{s.present.Label}
	for i := len(s.past) - 1; i > 0; i-- {
		labels = append(labels, s.past[i].Label)
	}
	return labels
}
