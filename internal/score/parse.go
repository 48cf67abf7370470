package score

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmpty is returned for markup that contains no measures at all.
var ErrEmpty = errors.New("score: no measures in markup")

// ParseError reports a malformed token with its markup line number.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("score: line %d: %s", e.Line, e.Msg)
}

// Parse reads score markup: header lines of the form "key: value" (title,
// composer, tempo), then music lines of |-delimited measures holding
// space-separated note tokens. Blank lines and lines starting with '#' are
// skipped anywhere.
//
// Note tokens are pitch notation like C4q, F#3h, Bb2w, A5e., or rests like
// rq, rh: step letter (or 'r'), optional accidental, octave digit, duration
// letter (w h q e s), optional dot.
func Parse(src string) (*Score, error) {
	sc := &Score{}
	inHeader := true
	for i, raw := range strings.Split(src, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if inHeader && !strings.HasPrefix(line, "|") {
			if err := parseHeaderLine(sc, line, lineNo); err != nil {
				return nil, err
			}
			continue
		}
		inHeader = false
		if !strings.HasPrefix(line, "|") {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected a measure line, got %q", line)}
		}
		measures, err := parseMusicLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		sc.Measures = append(sc.Measures, measures...)
	}
	if len(sc.Measures) == 0 {
		return nil, ErrEmpty
	}
	return sc, nil
}

func parseHeaderLine(sc *Score, line string, lineNo int) error {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected \"key: value\" header, got %q", line)}
	}
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "title":
		sc.Title = value
	case "composer":
		sc.Composer = value
	case "tempo":
		tempo, err := strconv.Atoi(value)
		if err != nil || tempo <= 0 {
			return &ParseError{Line: lineNo, Msg: fmt.Sprintf("invalid tempo %q", value)}
		}
		sc.Tempo = tempo
	default:
		// Unknown header keys are tolerated; upstream emitters add fields.
	}
	return nil
}

func parseMusicLine(line string, lineNo int) ([]Measure, error) {
	var measures []Measure
	for _, cell := range strings.Split(strings.Trim(line, "|"), "|") {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		var m Measure
		for _, tok := range strings.Fields(cell) {
			note, err := parseNote(tok, lineNo)
			if err != nil {
				return nil, err
			}
			m.Notes = append(m.Notes, note)
		}
		if len(m.Notes) > 0 {
			measures = append(measures, m)
		}
	}
	return measures, nil
}

func parseNote(tok string, lineNo int) (Note, error) {
	bad := func(msg string) (Note, error) {
		return Note{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("note %q: %s", tok, msg)}
	}
	rest := strings.ToLower(tok)
	if strings.HasPrefix(rest, "r") {
		dur, dotted, err := parseDuration(rest[1:])
		if err != nil {
			return bad(err.Error())
		}
		return Note{Rest: true, Duration: dur, Dotted: dotted}, nil
	}

	if len(tok) < 3 {
		return bad("too short")
	}
	step := tok[0]
	if step < 'A' || step > 'G' {
		return bad("step must be A-G or r")
	}
	rem := tok[1:]
	accidental := 0
	switch rem[0] {
	case '#':
		accidental = 1
		rem = rem[1:]
	case 'b':
		accidental = -1
		rem = rem[1:]
	}
	if len(rem) < 2 {
		return bad("missing octave or duration")
	}
	if rem[0] < '0' || rem[0] > '8' {
		return bad("octave must be 0-8")
	}
	octave := int(rem[0] - '0')
	dur, dotted, err := parseDuration(rem[1:])
	if err != nil {
		return bad(err.Error())
	}
	return Note{Step: step, Accidental: accidental, Octave: octave, Duration: dur, Dotted: dotted}, nil
}

func parseDuration(s string) (Duration, bool, error) {
	dotted := false
	if strings.HasSuffix(s, ".") {
		dotted = true
		s = s[:len(s)-1]
	}
	switch s {
	case "w":
		return Whole, dotted, nil
	case "h":
		return Half, dotted, nil
	case "q":
		return Quarter, dotted, nil
	case "e", "8":
		return Eighth, dotted, nil
	case "s", "16":
		return Sixteenth, dotted, nil
	}
	return Quarter, false, fmt.Errorf("unknown duration %q", s)
}
