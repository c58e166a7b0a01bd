package theme

import (
	"slices"
	"strings"
	"sync"
)

// Document is the presentation surface the theme is applied to.
// Class names address the surface's root element.
type Document interface {
	HasClass(name string) bool
	AddClass(name string)
	RemoveClass(name string)
	ToggleClass(name string, on bool)

	// Flush forces pending style changes to be committed synchronously.
	Flush()
}

// Op is a recorded document mutation.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpFlush  Op = "flush"
)

// Mutation is one entry of a ClassList journal.
type Mutation struct {
	Op    Op
	Class string
}

// ClassList is an in-memory root element. It records every effective
// mutation so callers can inspect what was applied and in which order.
type ClassList struct {
	mu       sync.Mutex
	classes  []string
	journal  []Mutation
	onChange func(classes []string)
}

// NewClassList creates a root element carrying classes.
func NewClassList(classes ...string) *ClassList {
	l := &ClassList{}
	for _, c := range classes {
		if !slices.Contains(l.classes, c) {
			l.classes = append(l.classes, c)
		}
	}
	return l
}

// SetChangeCallback sets a callback invoked after every flush with the
// current classes.
func (l *ClassList) SetChangeCallback(fn func(classes []string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// HasClass reports whether name is present.
func (l *ClassList) HasClass(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Contains(l.classes, name)
}

// AddClass adds name if it is missing.
func (l *ClassList) AddClass(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.add(name)
}

// RemoveClass removes name if it is present.
func (l *ClassList) RemoveClass(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.remove(name)
}

// ToggleClass adds name when on is true and removes it otherwise.
func (l *ClassList) ToggleClass(name string, on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if on {
		l.add(name)
	} else {
		l.remove(name)
	}
}

// Flush records a flush and reports the committed classes.
func (l *ClassList) Flush() {
	l.mu.Lock()
	l.journal = append(l.journal, Mutation{Op: OpFlush})
	fn := l.onChange
	classes := slices.Clone(l.classes)
	l.mu.Unlock()

	if fn != nil {
		fn(classes)
	}
}

// Classes returns the current classes in insertion order.
func (l *ClassList) Classes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.classes)
}

// Journal returns the recorded mutations.
func (l *ClassList) Journal() []Mutation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.journal)
}

// ResetJournal discards the recorded mutations.
func (l *ClassList) ResetJournal() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.journal = nil
}

// String returns the classes as a class attribute value.
func (l *ClassList) String() string {
	return strings.Join(l.Classes(), " ")
}

func (l *ClassList) add(name string) {
	if slices.Contains(l.classes, name) {
		return
	}
	l.classes = append(l.classes, name)
	l.journal = append(l.journal, Mutation{Op: OpAdd, Class: name})
}

func (l *ClassList) remove(name string) {
	i := slices.Index(l.classes, name)
	if i < 0 {
		return
	}
	l.classes = slices.Delete(l.classes, i, i+1)
	l.journal = append(l.journal, Mutation{Op: OpRemove, Class: name})
}
