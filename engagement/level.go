// Package engagement cleans the free-text ad-engagement field and maps it onto
// a fixed ordinal scale.
//
// The scale is an external contract shared with the chart title and reports:
//
//	None=0, Low=1, Medium=2, High=3
//
// Missing text is never turned into "None". A blank cell stays missing and
// yields a missing score, while the text "None" is an observed level scoring 0.
package engagement

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	scigoErrors "github.com/ezoic/adengage/pkg/errors"
)

// Level is an ordinal engagement score.
type Level int

// Engagement levels in score order.
const (
	None Level = iota
	Low
	Medium
	High
)

// ScaleDescription describes the score range for titles and labels.
const ScaleDescription = "0=None, 3=High"

var levelNames = [...]string{
	None:   "None",
	Low:    "Low",
	Medium: "Medium",
	High:   "High",
}

// Levels returns every level in score order.
func Levels() []Level {
	return []Level{None, Low, Medium, High}
}

// String returns the canonical title-cased name.
func (l Level) String() string {
	if !l.Valid() {
		return "Level(" + strconv.Itoa(int(l)) + ")"
	}
	return levelNames[l]
}

// Score returns the ordinal value.
func (l Level) Score() int { return int(l) }

// Valid reports whether l is one of the four levels.
func (l Level) Valid() bool {
	return l >= None && l <= High
}

// Clean trims surrounding whitespace and title-cases s. ok is false when
// nothing is left after trimming.
func Clean(s string) (cleaned string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	// a Caser carries state between calls, so each call gets its own
	return cases.Title(language.Und).String(s), true
}

// ParseLevel maps engagement text to a Level after cleaning it.
func ParseLevel(s string) (Level, error) {
	cleaned, ok := Clean(s)
	if !ok {
		return 0, scigoErrors.Wrap(scigoErrors.ErrUnknownLevel, "empty engagement text")
	}
	for i, name := range levelNames {
		if name == cleaned {
			return Level(i), nil
		}
	}
	return 0, scigoErrors.Wrapf(scigoErrors.ErrUnknownLevel, "%q", cleaned)
}
