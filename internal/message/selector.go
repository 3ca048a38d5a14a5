package message

import (
	"fmt"
	"math/rand"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// Inputs are the derived usage values the selector buckets on. All
// durations are tenths of a second except SessionMinutes.
type Inputs struct {
	SessionMinutes    int
	TodayTenths       int64
	WeekAverageTenths int64
	WeekTenths        int64
	OverallTenths     int64
}

// Bucket is a usage threshold tier. Each bucket has its own table of
// candidate lines; the tone is supportive throughout, never judgmental.
type Bucket int

const (
	BucketWarmup   Bucket = iota // session under half an hour
	BucketSettled                // half an hour to two hours
	BucketLong                   // two to four hours
	BucketMarathon               // past four hours
	BucketBigDay                 // today's total far above the weekly average
)

func (b Bucket) String() string {
	switch b {
	case BucketWarmup:
		return "warmup"
	case BucketSettled:
		return "settled"
	case BucketLong:
		return "long"
	case BucketMarathon:
		return "marathon"
	case BucketBigDay:
		return "big-day"
	default:
		return fmt.Sprintf("bucket(%d)", int(b))
	}
}

// BucketFor maps derived usage values to a threshold bucket. The big-day
// tier takes precedence: it keys off the day total relative to the weekly
// average rather than the running session alone.
func BucketFor(in Inputs) Bucket {
	const twoHoursTenths = 2 * 3600 * 10

	if in.WeekAverageTenths > 0 && in.TodayTenths > 2*in.WeekAverageTenths && in.TodayTenths >= twoHoursTenths {
		return BucketBigDay
	}

	switch {
	case in.SessionMinutes < 30:
		return BucketWarmup
	case in.SessionMinutes < 120:
		return BucketSettled
	case in.SessionMinutes < 240:
		return BucketLong
	default:
		return BucketMarathon
	}
}

// Selector picks a supportive line for the current usage values. Selection
// within a bucket is uniformly random; a small cache of recently shown
// lines avoids immediate repeats.
type Selector struct {
	rnd    *rand.Rand
	recent *lru.Cache[string, struct{}]
	logger zerolog.Logger
}

// NewSelector creates a selector. rnd may be nil, in which case a
// time-seeded source is used; tests inject a seeded source so bucket
// selection is verifiable.
func NewSelector(rnd *rand.Rand, historySize int, logger zerolog.Logger) (*Selector, error) {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if historySize <= 0 {
		historySize = 8
	}

	recent, err := lru.New[string, struct{}](historySize)
	if err != nil {
		return nil, fmt.Errorf("message history cache: %w", err)
	}

	return &Selector{
		rnd:    rnd,
		recent: recent,
		logger: logger.With().Str("component", "messages").Logger(),
	}, nil
}

// Pick returns one candidate line for the bucket the inputs fall into.
func (s *Selector) Pick(in Inputs) string {
	bucket := BucketFor(in)
	candidates := tables[bucket]
	if len(candidates) == 0 {
		return ""
	}

	line := candidates[s.rnd.Intn(len(candidates))]
	for i := 0; i < 3 && s.recent.Contains(line); i++ {
		line = candidates[s.rnd.Intn(len(candidates))]
	}
	s.recent.Add(line, struct{}{})

	s.logger.Debug().
		Stringer("bucket", bucket).
		Int("session_minutes", in.SessionMinutes).
		Msg("Selected message")

	return line
}
