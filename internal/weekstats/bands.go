package weekstats

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidGoal    = errors.New("step goal must be a positive number")
	ErrInvalidPalette = errors.New("color palette must have at least 2 colors")
)

type Color string

// Palette: index 0 is the "goal not reached yet" color, every next
// color is used for one more multiple of the goal. The last color is the ceiling.
type Palette []Color

var DefaultPalette = Palette{
	"#EEEEEE",
	"#1E88E5",
	"#9CCC65",
	"#5E35B1",
	"#FFB300",
	"#F4511E",
}

func (p Palette) tierCount() int {
	return len(p) - 1
}

// Segment is one colored arc of a day's progress ring.
type Segment struct {
	Color    Color   `json:"color"`
	Fraction float64 `json:"fraction"`
}

type BandEncoder struct {
	goal    float64
	palette Palette
}

func NewBandEncoder(goal float64, palette Palette) (*BandEncoder, error) {
	if goal <= 0 || math.IsNaN(goal) || math.IsInf(goal, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidGoal, goal)
	}
	if len(palette) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPalette, len(palette))
	}

	return &BandEncoder{
		goal:    goal,
		palette: append(Palette(nil), palette...),
	}, nil
}

// Tier is the number of full goal multiples reached, cycled over the palette tiers.
func (e *BandEncoder) Tier(stepTotal float64) int {
	whole := math.Floor(e.ratio(stepTotal))
	return int(math.Mod(whole, float64(e.palette.tierCount())))
}

// Encode maps a day's step total to 1 or 2 segments which always add up to a full ring.
// Every full goal multiple completes one loop and moves one color up the palette;
// from (len(palette)-1) x goal on, the ring is a single segment in the last color.
// The zero-length arc is never emitted: a total of exactly k x goal below the top
// (k = 0 included) is one full segment in palette[k], not palette[k+1] at 0 plus
// palette[k] at 1. Both render the same ring.
func (e *BandEncoder) Encode(stepTotal float64) []Segment {
	ratio := e.ratio(stepTotal)
	whole := math.Floor(ratio)
	tierCount := e.palette.tierCount()

	if whole >= float64(tierCount) {
		return []Segment{{Color: e.palette[tierCount], Fraction: 1}}
	}

	tier := int(whole) % tierCount
	fraction := ratio - whole
	if fraction == 0 {
		return []Segment{{Color: e.palette[tier], Fraction: 1}}
	}

	return []Segment{
		{Color: e.palette[tier+1], Fraction: fraction},
		{Color: e.palette[tier], Fraction: 1 - fraction},
	}
}

func (e *BandEncoder) ratio(stepTotal float64) float64 {
	if stepTotal <= 0 || math.IsNaN(stepTotal) {
		return 0
	}
	return stepTotal / e.goal
}
