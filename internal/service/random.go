package service

import "math/rand"

// Picker chooses an index uniformly from [0, n). n is always positive.
type Picker interface {
	IntN(n int) int
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(n int) int

func (f PickerFunc) IntN(n int) int { return f(n) }

// NewRandomPicker returns a Picker backed by the runtime's global,
// goroutine-safe random source.
func NewRandomPicker() Picker {
	return PickerFunc(rand.Intn)
}
