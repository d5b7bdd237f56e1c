package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/ofcgym/poker"
)

// EpisodeResult is the outcome of one finished episode.
type EpisodeResult struct {
	Reward            float64        // terminal reward
	Win               bool           // front row strictly stronger
	IgnoredPlacements int            // actions that chose a full row
	FrontClass        poker.HandType // hand class of the completed front row
	BackClass         poker.HandType // hand class of the completed back row
	Seed              int64          // worker seed that produced the episode
}

// ClassCounts is a histogram indexed by poker.HandType.
type ClassCounts [poker.StraightFlush + 1]int

// Statistics accumulates episode results.
type Statistics struct {
	Episodes   int
	SumReward  float64
	SumReward2 float64   // Sum of squares for variance calculation
	Values     []float64 // All rewards for median/percentile calculation

	Wins   int
	Losses int

	IgnoredPlacements int

	FrontClasses ClassCounts
	BackClasses  ClassCounts
}

// Add incorporates one episode.
func (s *Statistics) Add(result EpisodeResult) {
	s.Episodes++
	s.SumReward += result.Reward
	s.SumReward2 += result.Reward * result.Reward
	s.Values = append(s.Values, result.Reward)

	if result.Win {
		s.Wins++
	} else {
		s.Losses++
	}
	s.IgnoredPlacements += result.IgnoredPlacements

	if int(result.FrontClass) < len(s.FrontClasses) {
		s.FrontClasses[result.FrontClass]++
	}
	if int(result.BackClass) < len(s.BackClasses) {
		s.BackClasses[result.BackClass]++
	}
}

// Merge folds other into s. Workers keep private statistics and merge at the end.
func (s *Statistics) Merge(other *Statistics) {
	s.Episodes += other.Episodes
	s.SumReward += other.SumReward
	s.SumReward2 += other.SumReward2
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.IgnoredPlacements += other.IgnoredPlacements
	for i := range s.FrontClasses {
		s.FrontClasses[i] += other.FrontClasses[i]
		s.BackClasses[i] += other.BackClasses[i]
	}
}

// Mean returns the mean reward per episode.
func (s *Statistics) Mean() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return s.SumReward / float64(s.Episodes)
}

// WinRate returns the fraction of episodes the front row won.
func (s *Statistics) WinRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Episodes)
}

// Variance returns the sample variance of rewards.
func (s *Statistics) Variance() float64 {
	if s.Episodes < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumReward2 - float64(s.Episodes)*mean*mean) / float64(s.Episodes-1)
	if v < 0 {
		// rounding
		return 0
	}
	return v
}

// StdDev returns the sample standard deviation of rewards.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Episodes))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median reward.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the reward at percentile p in [0, 1], interpolating
// between neighbouring values.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks the counters agree with each other.
func (s *Statistics) Validate() error {
	if s.Episodes <= 0 {
		return fmt.Errorf("invalid episode count: %d", s.Episodes)
	}
	if len(s.Values) != s.Episodes {
		return fmt.Errorf("values array length (%d) does not match episode count (%d)", len(s.Values), s.Episodes)
	}
	if s.Wins+s.Losses != s.Episodes {
		return fmt.Errorf("wins (%d) plus losses (%d) does not match episode count (%d)", s.Wins, s.Losses, s.Episodes)
	}
	if n := s.FrontClasses.Total(); n != s.Episodes {
		return fmt.Errorf("front class total (%d) does not match episode count (%d)", n, s.Episodes)
	}
	if n := s.BackClasses.Total(); n != s.Episodes {
		return fmt.Errorf("back class total (%d) does not match episode count (%d)", n, s.Episodes)
	}
	return nil
}

// Total sums the histogram.
func (c ClassCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}
