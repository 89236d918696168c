package models

import "fmt"

// Window is the inclusive input intensity range [Low, High] whose pixels
// shape the histogram. Pixels outside it are clamped to the nearest class.
type Window struct {
	Low  int `yaml:"low"`
	High int `yaml:"high"`
}

// Classes returns the number of intensity classes in the window. It is not
// positive when High < Low.
func (w Window) Classes() int {
	return w.High - w.Low + 1
}

// Contains reports whether v lies inside the window
func (w Window) Contains(v int) bool {
	return w.Low <= v && v <= w.High
}

func (w Window) String() string {
	return fmt.Sprintf("[%d, %d]", w.Low, w.High)
}

// OutputRange is the inclusive intensity range [Low, High] output samples are
// rescaled and clamped into.
type OutputRange struct {
	Low  int `yaml:"low"`
	High int `yaml:"high"`
}

// Clamp limits v to the range
func (r OutputRange) Clamp(v int) int {
	return max(r.Low, min(r.High, v))
}

func (r OutputRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.Low, r.High)
}
