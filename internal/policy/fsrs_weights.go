package policy

import (
	"errors"
	"fmt"
	"math"
)

// DefaultWeights are the FSRS-6 default parameter values.
var DefaultWeights = [21]float64{
	0.212, 1.2931, 2.3065, 8.2956, // w[0..3]  initial stability per rating
	6.4133, 0.8334, 3.0194, 0.001, // w[4..7]  difficulty
	1.8722, 0.1666, 0.796, 1.4835, // w[8..11] recall stability
	0.0614, 0.2629, 1.6483, 0.6014, // w[12..15] forget stability, hard penalty
	1.8729, 0.5425, 0.0912, 0.0658, // w[16..19] easy bonus, short-term
	0.1542, // w[20] decay
}

var (
	weightsLower = [21]float64{
		0.001, 0.001, 0.001, 0.001,
		1.0, 0.001, 0.001, 0.001,
		0.0, 0.0, 0.001, 0.001,
		0.001, 0.001, 0.0, 0.0,
		1.0, 0.0, 0.0, 0.0,
		0.1,
	}
	weightsUpper = [21]float64{
		100.0, 100.0, 100.0, 100.0,
		10.0, 4.0, 4.0, 0.75,
		4.5, 0.8, 3.5, 5.0,
		0.25, 0.9, 4.0, 1.0,
		6.0, 2.0, 2.0, 0.8,
		0.8,
	}
)

// ErrInvalidWeights is returned when a weight lies outside its bounds.
var ErrInvalidWeights = errors.New("fsrs weights out of bounds")

// ValidateWeights checks every weight against its FSRS-6 bounds.
func ValidateWeights(w [21]float64) error {
	for i := range w {
		if w[i] < weightsLower[i] || w[i] > weightsUpper[i] {
			return fmt.Errorf("%w: w[%d] = %f, bounds [%f, %f]",
				ErrInvalidWeights, i, w[i], weightsLower[i], weightsUpper[i])
		}
	}
	return nil
}

// memoryModel evaluates the FSRS-6 formulas for one weight vector.
type memoryModel struct {
	w      [21]float64
	decay  float64
	factor float64
}

func newMemoryModel(w [21]float64) memoryModel {
	decay := -w[20]
	return memoryModel{
		w:      w,
		decay:  decay,
		factor: math.Pow(0.9, 1.0/decay) - 1.0,
	}
}

// retrievability is the recall probability after elapsed days.
func (m memoryModel) retrievability(elapsedDays, stability float64) float64 {
	return math.Pow(1+m.factor*elapsedDays/stability, m.decay)
}

func (m memoryModel) initialStability(g float64) float64 {
	return clampStability(m.w[int(g)-1])
}

func (m memoryModel) initialDifficulty(g float64, clamp bool) float64 {
	d := m.w[4] - math.Exp(m.w[5]*(g-1)) + 1
	if clamp {
		return clampDifficulty(d)
	}
	return d
}

// intervalDays converts stability into whole days at the desired retention.
func (m memoryModel) intervalDays(stability, retention float64, maxDays int) int {
	ivl := stability / m.factor * (math.Pow(retention, 1.0/m.decay) - 1)
	days := int(math.Round(ivl))
	if days < 1 {
		days = 1
	}
	if days > maxDays {
		days = maxDays
	}
	return days
}

// sameDayStability applies the short-term update for reviews under a day apart.
func (m memoryModel) sameDayStability(s, g float64) float64 {
	inc := math.Exp(m.w[17]*(g-3+m.w[18])) * math.Pow(s, -m.w[19])
	if g >= 3 {
		inc = math.Max(inc, 1.0)
	}
	return clampStability(s * inc)
}

// nextDifficulty applies linear damping then mean reversion toward D0(Easy).
func (m memoryModel) nextDifficulty(d, g float64) float64 {
	delta := -m.w[6] * (g - 3)
	damped := d + (10-d)*delta/9
	target := m.initialDifficulty(4, false)
	return clampDifficulty(m.w[7]*target + (1-m.w[7])*damped)
}

func (m memoryModel) recallStability(d, s, r, g float64) float64 {
	hardPenalty, easyBonus := 1.0, 1.0
	if g == 2 {
		hardPenalty = m.w[15]
	}
	if g == 4 {
		easyBonus = m.w[16]
	}
	return s * (1 + math.Exp(m.w[8])*(11-d)*math.Pow(s, -m.w[9])*
		(math.Exp((1-r)*m.w[10])-1)*hardPenalty*easyBonus)
}

func (m memoryModel) forgetStability(d, s, r float64) float64 {
	long := m.w[11] * math.Pow(d, -m.w[12]) * (math.Pow(s+1, m.w[13]) - 1) * math.Exp((1-r)*m.w[14])
	short := s / math.Exp(m.w[17]*m.w[18])
	return math.Min(long, short)
}

func clampStability(s float64) float64 {
	return math.Max(s, 0.001)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, 1), 10)
}

type fuzzBand struct {
	start, end, factor float64
}

var fuzzBands = []fuzzBand{
	{2.5, 7.0, 0.15},
	{7.0, 20.0, 0.10},
	{20.0, math.Inf(1), 0.05},
}

// fuzzDays spreads an interval of at least 3 days over a small window so
// items learned together do not fall due together. u is uniform in [0, 1).
func fuzzDays(days, maxDays int, u float64) int {
	ivl := float64(days)
	if ivl < 2.5 {
		return days
	}
	delta := 1.0
	for _, b := range fuzzBands {
		delta += b.factor * math.Max(math.Min(ivl, b.end)-b.start, 0)
	}
	lo := max(2, int(math.Round(ivl-delta)))
	hi := min(int(math.Round(ivl+delta)), maxDays)
	lo = min(lo, hi)
	return min(int(math.Round(u*float64(hi-lo+1)))+lo, maxDays)
}
