// Package participant finds the nicks that speak or act in an IRC log excerpt.
//
// Two line prefixes are recognised:
//
//	<nick> message
//	* nick action
//
// Anything else on a line is ignored. Parsing never spans a newline.
package participant

import "strings"

// State is the position of the line parser.
type State int

const (
	// Start expects the first character of a line.
	Start State = iota
	// InAngleName collects a nick until '>'.
	InAngleName
	// AfterStar requires the single space following '*'.
	AfterStar
	// InStarName collects a nick until ' '.
	InStarName
	// Skip discards the rest of the line.
	Skip
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case InAngleName:
		return "angle-name"
	case AfterStar:
		return "after-star"
	case InStarName:
		return "star-name"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

// Action tells the caller what to do with the rune just stepped over.
type Action int

const (
	// None drops the rune.
	None Action = iota
	// Collect appends the rune to the nick being read.
	Collect
	// Complete ends the nick; the rune itself is not part of it.
	Complete
)

// Step is the transition function of the line parser.
func Step(state State, r rune) (State, Action) {
	if r == '\n' {
		return Start, None
	}

	switch state {
	case Start:
		switch r {
		case '<':
			return InAngleName, None
		case '*':
			return AfterStar, None
		}
		return Skip, None
	case InAngleName:
		if r == '>' {
			return Skip, Complete
		}
		return InAngleName, Collect
	case AfterStar:
		if r == ' ' {
			return InStarName, None
		}
		return Skip, None
	case InStarName:
		if r == ' ' {
			return Skip, Complete
		}
		return InStarName, Collect
	default:
		return Skip, None
	}
}

// Extract returns the nicks named in text in order of appearance. A nick equal
// to the one recorded just before it is dropped; repeats further apart are kept.
func Extract(text string) []string {
	var (
		names []string
		buf   strings.Builder
		state = Start
	)

	for _, r := range text {
		next, action := Step(state, r)
		switch action {
		case Collect:
			buf.WriteRune(r)
		case Complete:
			names = appendName(names, buf.String())
		}
		if action == Complete || next == Start {
			buf.Reset()
		}
		state = next
	}
	return names
}

// ExtractLine returns the nick on a single line, if any. Text after the first
// newline is ignored.
func ExtractLine(line string) (string, bool) {
	line, _, _ = strings.Cut(line, "\n")
	names := Extract(line)
	if len(names) == 0 {
		return "", false
	}
	return names[0], true
}

func appendName(names []string, name string) []string {
	if n := len(names); n > 0 && names[n-1] == name {
		return names
	}
	return append(names, name)
}
