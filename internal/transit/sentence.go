package transit

import (
	"fmt"
	"strconv"
)

// NoPredictions is spoken when nothing is expected at the stop.
const NoPredictions = "There are no predictions at this time"

type phrasing struct {
	empty string
	one   string // route, minutes, stop
	many  string // route, "a and b", stop
}

var phrasings = map[ProviderKind]phrasing{
	MIT: {
		empty: NoPredictions,
		one:   "The next %s shuttle is coming in %s minutes to %s",
		many:  "The next %s shuttles are coming in %s minutes to %s",
	},
	OneBus: {
		empty: "There are no One Bus predictions at this time",
		one:   "The next %s is coming in %s minutes to %s",
		many:  "The next %s are coming in %s minutes to %s",
	},
	Harvard: {
		empty: "There are no Harvard Shuttle predictions at this time",
		one:   "The next %s is coming in %s minutes to %s",
		many:  "The next %s are coming in %s minutes to %s",
	},
}

// Describe renders a provider result as a sentence naming at most the two
// soonest arrivals.
func Describe(r Result) string {
	p, ok := phrasings[r.Provider]
	if !ok {
		p = phrasings[MIT]
	}
	switch len(r.Minutes) {
	case 0:
		return p.empty
	case 1:
		return fmt.Sprintf(p.one, r.Route, formatMinutes(r.Minutes[0]), r.Stop)
	default:
		pair := formatMinutes(r.Minutes[0]) + " and " + formatMinutes(r.Minutes[1])
		return fmt.Sprintf(p.many, r.Route, pair, r.Stop)
	}
}

// Sentence renders the ranking for the direction's stop.
func (r Ranking) Sentence() string {
	switch len(r.Predictions) {
	case 0:
		return NoPredictions
	case 1:
		first := r.Predictions[0]
		return fmt.Sprintf("The next shuttle coming into %s is the %s in %s minutes",
			r.Stop, first.Route, formatMinutes(first.Minutes))
	default:
		first, second := r.Predictions[0], r.Predictions[1]
		return fmt.Sprintf("The next shuttles coming into %s are the %s in %s minutes and the %s in %s minutes",
			r.Stop, first.Route, formatMinutes(first.Minutes), second.Route, formatMinutes(second.Minutes))
	}
}

func formatMinutes(m float64) string {
	return strconv.FormatFloat(m, 'f', 1, 64)
}
