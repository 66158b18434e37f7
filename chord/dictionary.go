package chord

// Pattern is one entry of the chord dictionary: intervals in semitones
// above the root, the display suffix and the quality label. Declaration
// order breaks ties between matches with the same interval count.
type Pattern struct {
	Intervals []int
	Suffix    string
	Quality   string
}

var dictionary = []Pattern{
	// triads
	{[]int{0, 4, 7}, "", "major"},
	{[]int{0, 3, 7}, "m", "minor"},
	{[]int{0, 3, 6}, "dim", "diminished"},
	{[]int{0, 4, 8}, "aug", "augmented"},
	{[]int{0, 2, 7}, "sus2", "suspended"},
	{[]int{0, 5, 7}, "sus4", "suspended"},

	// sixths, sevenths, extensions, adds
	{[]int{0, 4, 7, 9}, "6", "major"},
	{[]int{0, 3, 7, 9}, "m6", "minor"},
	{[]int{0, 4, 7, 11}, "maj7", "major"},
	{[]int{0, 4, 7, 10}, "7", "dominant"},
	{[]int{0, 3, 7, 10}, "m7", "minor"},
	{[]int{0, 3, 7, 11}, "mMaj7", "minor"},
	{[]int{0, 3, 6, 9}, "dim7", "diminished"},
	{[]int{0, 3, 6, 10}, "m7b5", "half-diminished"},
	{[]int{0, 2, 4, 7, 10}, "9", "dominant"},
	{[]int{0, 2, 4, 7, 11}, "maj9", "major"},
	{[]int{0, 2, 3, 7, 10}, "m9", "minor"},
	{[]int{0, 2, 4, 7}, "add9", "major"},

	// power chord last so real triads always outrank it
	{[]int{0, 7}, "5", "power"},
}

var pitchClassNames = [12]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}
