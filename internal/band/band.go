// Package band converts raw listening and reading scores to bands.
package band

import "strconv"

// Band is a standardized score between 3.5 and 9.0 in half steps.
type Band float64

const (
	Floor   Band = 3.5
	Ceiling Band = 9.0

	// MaxCorrect is the number of items in a listening or reading test.
	MaxCorrect = 40
)

// step is one row of the conversion table.
type step struct {
	minCorrect int
	band       Band
}

// table is the published listening/reading conversion. Rows are ordered by
// descending threshold. Do not derive or tune these values.
var table = []step{
	{39, 9.0},
	{37, 8.5},
	{35, 8.0},
	{32, 7.5},
	{30, 7.0},
	{26, 6.5},
	{23, 6.0},
	{18, 5.5},
	{16, 5.0},
	{13, 4.5},
	{10, 4.0},
}

// FromCorrect maps a correct-answer count to its band. Counts outside
// 0-40 clamp to the table ends.
func FromCorrect(correct int) Band {
	if correct > MaxCorrect {
		correct = MaxCorrect
	}
	for _, s := range table {
		if correct >= s.minCorrect {
			return s.band
		}
	}
	return Floor
}

// Float returns the band as a float64 for serialization.
func (b Band) Float() float64 { return float64(b) }

// String formats the band with one decimal, e.g. "6.5".
func (b Band) String() string {
	return strconv.FormatFloat(float64(b), 'f', 1, 64)
}
