// Package score models the plain-text score markup scoreleaf displays.
//
// The markup is what the upstream extraction pipeline emits for an uploaded
// score: a small header block followed by measures of monophonic notation.
// scoreleaf only needs enough structure to lay systems out; it is not a
// notation editor.
package score

import "fmt"

// Duration is a note length in fractions of a whole note.
type Duration int

const (
	Whole Duration = iota
	Half
	Quarter
	Eighth
	Sixteenth
)

// Beats returns the duration in quarter-note beats, ignoring dots.
func (d Duration) Beats() float64 {
	switch d {
	case Whole:
		return 4
	case Half:
		return 2
	case Quarter:
		return 1
	case Eighth:
		return 0.5
	case Sixteenth:
		return 0.25
	}
	return 1
}

func (d Duration) String() string {
	switch d {
	case Whole:
		return "whole"
	case Half:
		return "half"
	case Quarter:
		return "quarter"
	case Eighth:
		return "eighth"
	case Sixteenth:
		return "sixteenth"
	}
	return "unknown"
}

// Note is one notated event: a pitch or a rest with a duration.
type Note struct {
	Rest       bool
	Step       byte // 'A'..'G', meaningless for rests
	Accidental int  // -1 flat, 0 natural, +1 sharp
	Octave     int  // scientific pitch notation, 0..8
	Duration   Duration
	Dotted     bool
}

// Beats returns the note's length in quarter-note beats, dots included.
func (n Note) Beats() float64 {
	b := n.Duration.Beats()
	if n.Dotted {
		b *= 1.5
	}
	return b
}

// StaffPosition returns the note's diatonic step count above C0. Adjacent
// values are one staff position (line to space) apart.
func (n Note) StaffPosition() int {
	letters := map[byte]int{'C': 0, 'D': 1, 'E': 2, 'F': 3, 'G': 4, 'A': 5, 'B': 6}
	return n.Octave*7 + letters[n.Step]
}

func (n Note) String() string {
	if n.Rest {
		return fmt.Sprintf("rest(%s)", n.Duration)
	}
	return fmt.Sprintf("%c%d(%s)", n.Step, n.Octave, n.Duration)
}

// Measure is one bar of notes.
type Measure struct {
	Notes []Note
}

// Beats returns the measure's total length in quarter-note beats.
func (m Measure) Beats() float64 {
	var total float64
	for _, n := range m.Notes {
		total += n.Beats()
	}
	return total
}

// Score is one parsed document.
type Score struct {
	Title    string
	Composer string
	Tempo    int
	Measures []Measure
}
