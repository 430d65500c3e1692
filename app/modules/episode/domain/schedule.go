package episodedomain

import (
	"errors"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Schedule is a season of Total episodes, the first airing at First and each
// following one IntervalDays calendar days later, in First's location.
type Schedule struct {
	First        time.Time
	IntervalDays int
	Duration     time.Duration
	Total        int
}

// Info is the schedule as seen at one instant.
type Info struct {
	CurrentEpisode  int        `json:"currentEpisode"`
	IsDuringEpisode bool       `json:"isDuringEpisode"`
	IsVotingAllowed bool       `json:"isVotingAllowed"`
	NextEpisodeAt   *time.Time `json:"nextEpisodeAt"`
	VotingResumesAt time.Time  `json:"votingResumesAt"`
	TotalEpisodes   int        `json:"totalEpisodes"`
}

// Validate rejects schedules Info cannot work with.
func (s Schedule) Validate() error {
	switch {
	case s.First.IsZero():
		return errors.New("schedule: first airing is required")
	case s.IntervalDays < 1:
		return errors.New("schedule: interval must be at least one day")
	case s.Duration < 0:
		return errors.New("schedule: duration must not be negative")
	case s.Total < 1:
		return errors.New("schedule: total episodes must be positive")
	}
	return nil
}

// AiringStart returns when the episode with zero-based index k starts.
// Calendar arithmetic keeps the wall-clock time stable across DST changes.
func (s Schedule) AiringStart(k int) time.Time {
	return s.First.AddDate(0, 0, k*s.IntervalDays)
}

// lastStarted returns the index of the latest airing that started at or
// before now, or -1 before the season.
func (s Schedule) lastStarted(now time.Time) int {
	if now.Before(s.First) {
		return -1
	}
	interval := time.Duration(s.IntervalDays) * 24 * time.Hour
	k := int(now.Sub(s.First) / interval)
	for k > 0 && s.AiringStart(k).After(now) {
		k--
	}
	for !s.AiringStart(k + 1).After(now) {
		k++
	}
	return k
}

// Info evaluates the schedule at now.
func (s Schedule) Info(now time.Time) Info {
	now = now.In(s.First.Location())
	k := s.lastStarted(now)

	weeks := k
	if weeks < 0 {
		weeks = 0
	}
	current := weeks + 1
	if now.After(s.First.Add(s.Duration)) {
		current = weeks + 2
	}
	current = max(1, min(current, s.Total))

	info := Info{
		CurrentEpisode:  current,
		VotingResumesAt: now,
		TotalEpisodes:   s.Total,
	}

	if k >= 0 && k < s.Total {
		end := s.AiringStart(k).Add(s.Duration)
		if now.Before(end) {
			info.IsDuringEpisode = true
			info.VotingResumesAt = end
		}
	}
	info.IsVotingAllowed = !info.IsDuringEpisode

	if next := k + 1; next < s.Total {
		at := s.AiringStart(next)
		info.NextEpisodeAt = &at
	}
	return info
}
