package notation

import (
	"math"

	"github.com/scschwa/nord-stage-3-interface/constants"
	"github.com/scschwa/nord-stage-3-interface/quantize"
)

// onsets closer than this are one chord
const coincidentEps = 0.001

// float comparisons: grid positions are binary fractions so this only
// guards arithmetic noise
const eps = 1e-9

// duration ladder in beats (quarter note = 1 beat)
type ladderEntry struct {
	beats float64
	name  string
}

var durationLadder = []ladderEntry{
	{4, "whole"},
	{2, "half"},
	{1, "quarter"},
	{0.5, "eighth"},
	{0.25, "16th"},
	{0.125, "32nd"},
}

// Pitch is a notated pitch: letter step, sharp count and octave, from a
// fixed sharp-preferring table. No flats, no key-aware respelling.
type Pitch struct {
	Step   string
	Alter  int
	Octave int
	Midi   uint8
}

// Element is one notated item of a measure: a rest or a group of
// simultaneous notes sharing a duration. Beats is exact; Type/Dots is
// the nearest notatable rendering of it.
type Element struct {
	Rest     bool
	Notes    []Pitch
	Beats    float64
	Type     string
	Dots     int
	TieStart bool
	TieStop  bool
}

type Measure struct {
	Number   int
	Elements []Element
}

// Document is the finished score: ordered measures whose element
// durations sum exactly to the measure capacity.
type Document struct {
	BPM             int
	BeatsPerMeasure int
	Divisions       int
	Measures        []Measure
}

type group struct {
	start   float64
	beats   float64
	pitches []Pitch
}

// Generate turns a quantized take into a measure-structured document.
// Notes with coincident starts merge into one chord group holding the
// longest member's duration; gaps and trailing spans become rests; a
// group crossing a barline is split and tied. The walk emits exactly
// BeatsPerMeasure beats per measure by construction.
func Generate(q quantize.Result) Document {
	doc := Document{
		BPM:             q.BPM,
		BeatsPerMeasure: q.BeatsPerMeasure,
		Divisions:       constants.DivisionsPerQuarter,
	}
	if len(q.Notes) == 0 || q.TotalBeats <= 0 {
		return doc
	}

	total := q.TotalBeats
	numMeasures := int(math.Round(total / float64(q.BeatsPerMeasure)))
	doc.Measures = make([]Measure, numMeasures)
	for i := range doc.Measures {
		doc.Measures[i].Number = i + 1
	}

	groups := groupByOnset(q)
	cursor := 0.0
	for _, g := range groups {
		start := g.start
		if start < cursor {
			// overlapping groups are pushed right; a documented
			// simplification, not multi-voice notation
			start = cursor
		}
		if start > cursor {
			fillRests(&doc, cursor, math.Min(start, total))
		}
		cursor = emitGroup(&doc, g, start, total)
	}
	if cursor < total-eps {
		fillRests(&doc, cursor, total)
	}
	return doc
}

func groupByOnset(q quantize.Result) []group {
	var groups []group
	for _, n := range q.Notes {
		p := pitchOf(n.Note)
		if len(groups) > 0 && n.StartBeats-groups[len(groups)-1].start < coincidentEps {
			g := &groups[len(groups)-1]
			g.pitches = append(g.pitches, p)
			if n.DurationBeats > g.beats {
				g.beats = n.DurationBeats
			}
			continue
		}
		groups = append(groups, group{
			start:   n.StartBeats,
			beats:   n.DurationBeats,
			pitches: []Pitch{p},
		})
	}
	return groups
}

// emitGroup writes one chord group starting at the given position,
// splitting at barlines with ties. Returns the new cursor.
func emitGroup(doc *Document, g group, start, total float64) float64 {
	remaining := g.beats
	at := start
	first := true
	for remaining > eps && at < total-eps {
		bar := barlineAfter(at, doc.BeatsPerMeasure)
		seg := math.Min(remaining, bar-at)
		seg = math.Min(seg, total-at)

		el := Element{Notes: g.pitches, Beats: seg}
		el.Type, el.Dots = durationType(seg)
		el.TieStop = !first
		el.TieStart = remaining-seg > eps && at+seg < total-eps
		appendElement(doc, at, el)

		at += seg
		remaining -= seg
		first = false
	}
	return at
}

// fillRests closes the span [from, to) with rests, splitting at barlines
// and greedily decomposing each span into exact notatable values.
func fillRests(doc *Document, from, to float64) {
	at := from
	for at < to-eps {
		bar := barlineAfter(at, doc.BeatsPerMeasure)
		end := math.Min(to, bar)
		for _, beats := range decomposeRest(end - at) {
			el := Element{Rest: true, Beats: beats}
			el.Type, el.Dots = durationType(beats)
			appendElement(doc, at, el)
			at += beats
		}
		at = end
	}
}

// decomposeRest splits a span (at most one measure) into ladder or
// single-dotted ladder values. A sub-32nd remainder is emitted as-is and
// rendered as the closest type.
func decomposeRest(span float64) []float64 {
	var res []float64
	remaining := span
	for remaining > eps {
		v := largestFit(remaining)
		if v <= 0 {
			res = append(res, remaining)
			break
		}
		res = append(res, v)
		remaining -= v
	}
	return res
}

// largestFit prefers a single dotted value over two plain ones, so a
// 3-beat gap is one dotted half rather than half + quarter.
func largestFit(remaining float64) float64 {
	for _, entry := range durationLadder {
		if dotted := entry.beats * 1.5; dotted <= remaining+eps {
			return dotted
		}
		if entry.beats <= remaining+eps {
			return entry.beats
		}
	}
	return 0
}

// durationType maps a beat span to the nearest notated type: exact
// ladder value, else a single-dotted ladder value, else the closest
// ladder entry with zero dots. No tuplets, no double dots.
func durationType(beats float64) (string, int) {
	for _, entry := range durationLadder {
		if math.Abs(beats-entry.beats) < eps {
			return entry.name, 0
		}
	}
	for _, entry := range durationLadder {
		if math.Abs(beats-entry.beats*1.5) < eps {
			return entry.name, 1
		}
	}
	best := durationLadder[0]
	bestDist := math.Abs(beats - best.beats)
	for _, entry := range durationLadder[1:] {
		if d := math.Abs(beats - entry.beats); d < bestDist {
			best = entry
			bestDist = d
		}
	}
	return best.name, 0
}

func appendElement(doc *Document, at float64, el Element) {
	idx := int(math.Floor(at/float64(doc.BeatsPerMeasure) + eps))
	if idx >= len(doc.Measures) {
		return
	}
	doc.Measures[idx].Elements = append(doc.Measures[idx].Elements, el)
}

func barlineAfter(at float64, beatsPerMeasure int) float64 {
	b := float64(beatsPerMeasure)
	return (math.Floor(at/b+eps) + 1) * b
}

var pitchTable = [12]struct {
	step  string
	alter int
}{
	{"C", 0}, {"C", 1}, {"D", 0}, {"D", 1}, {"E", 0}, {"F", 0},
	{"F", 1}, {"G", 0}, {"G", 1}, {"A", 0}, {"A", 1}, {"B", 0},
}

func pitchOf(note uint8) Pitch {
	entry := pitchTable[note%12]
	return Pitch{
		Step:   entry.step,
		Alter:  entry.alter,
		Octave: int(note)/12 - 1,
		Midi:   note,
	}
}
