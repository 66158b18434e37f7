package chord

import (
	"github.com/scschwa/nord-stage-3-interface/model"
)

// Recognize labels the chord formed by the given note numbers. It needs
// at least 2 notes; absence of a match is a normal (zero, false) result,
// never an error.
//
// Every candidate root (0-11, ascending) is tried against every
// dictionary pattern in declaration order; a pattern matches when each of
// its root-transposed pitch classes is sounding. The match with the most
// intervals wins and only a strictly better match replaces the current
// one, so ties resolve to the lower root first, then to the
// earlier-declared pattern. That is a deliberate deterministic policy:
// over {A,C,E,G} both C6 and Am7 match fully and the C root wins.
func Recognize(notes model.Notes) (model.ChordResult, bool) {
	var res model.ChordResult
	if len(notes) < 2 {
		return res, false
	}

	var classes [12]bool
	lowest := notes[0]
	for _, n := range notes {
		classes[n%12] = true
		if n < lowest {
			lowest = n
		}
	}

	bestRoot := -1
	var bestPattern Pattern
	for root := 0; root < 12; root++ {
		for _, p := range dictionary {
			if bestRoot >= 0 && len(p.Intervals) <= len(bestPattern.Intervals) {
				continue
			}
			if matches(classes, root, p.Intervals) {
				bestRoot = root
				bestPattern = p
			}
		}
	}
	if bestRoot < 0 {
		return res, false
	}

	res.Root = pitchClassNames[bestRoot]
	res.Suffix = bestPattern.Suffix
	res.Quality = bestPattern.Quality
	res.Name = res.Root + res.Suffix

	if bass := int(lowest % 12); bass != bestRoot {
		res.Bass = pitchClassNames[bass]
		res.Name += "/" + res.Bass
	}
	return res, true
}

func matches(classes [12]bool, root int, intervals []int) bool {
	for _, iv := range intervals {
		if !classes[(root+iv)%12] {
			return false
		}
	}
	return true
}
