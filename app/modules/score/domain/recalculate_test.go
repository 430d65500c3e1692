package scoredomain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		current      map[string]int
		votes        []Vote
		isEliminated bool
		isMol        bool
		want         []Adjustment
	}{
		{
			name:    "mole credits every vote",
			current: map[string]int{"p1": 10, "p2": 0},
			votes: []Vote{
				{Player: "p1", Episode: 1, Points: 40},
				{Player: "p2", Episode: 1, Points: 25},
			},
			isMol: true,
			want: []Adjustment{
				{Player: "p1", Previous: 10, Delta: 40, Next: 50},
				{Player: "p2", Previous: 0, Delta: 25, Next: 25},
			},
		},
		{
			name:    "mole sums votes across episodes",
			current: map[string]int{"p1": 0},
			votes: []Vote{
				{Player: "p1", Episode: 1, Points: 10},
				{Player: "p1", Episode: 2, Points: 15},
			},
			isMol: true,
			want:  []Adjustment{{Player: "p1", Previous: 0, Delta: 25, Next: 25}},
		},
		{
			name:    "elimination debits only the latest vote",
			current: map[string]int{"p1": 100},
			votes: []Vote{
				{Player: "p1", Episode: 1, Points: 10},
				{Player: "p1", Episode: 3, Points: 20},
			},
			isEliminated: true,
			want:         []Adjustment{{Player: "p1", Previous: 100, Delta: -20, Next: 80}},
		},
		{
			name:    "elimination picks latest regardless of order",
			current: map[string]int{"p1": 0, "p2": 5},
			votes: []Vote{
				{Player: "p1", Episode: 4, Points: 30},
				{Player: "p2", Episode: 2, Points: 5},
				{Player: "p1", Episode: 2, Points: 70},
			},
			isEliminated: true,
			want: []Adjustment{
				{Player: "p1", Previous: 0, Delta: -30, Next: -30},
				{Player: "p2", Previous: 5, Delta: -5, Next: 0},
			},
		},
		{
			name:         "mole wins over elimination",
			current:      map[string]int{"p1": 0},
			votes:        []Vote{{Player: "p1", Episode: 1, Points: 10}, {Player: "p1", Episode: 2, Points: 20}},
			isEliminated: true,
			isMol:        true,
			want:         []Adjustment{{Player: "p1", Previous: 0, Delta: 30, Next: 30}},
		},
		{
			name:    "revert is a no-op",
			current: map[string]int{"p1": 10},
			votes:   []Vote{{Player: "p1", Episode: 1, Points: 40}},
			want:    []Adjustment{},
		},
		{
			name:    "unknown players are ignored",
			current: map[string]int{"p1": 0},
			votes: []Vote{
				{Player: "ghost", Episode: 1, Points: 50},
				{Player: "p1", Episode: 1, Points: 50},
			},
			isMol: true,
			want:  []Adjustment{{Player: "p1", Previous: 0, Delta: 50, Next: 50}},
		},
		{
			name:    "zero point votes touch nobody",
			current: map[string]int{"p1": 7},
			votes:   []Vote{{Player: "p1", Episode: 2, Points: 0}},
			isMol:   true,
			want:    []Adjustment{},
		},
		{
			name:    "no votes",
			current: map[string]int{"p1": 7},
			isMol:   true,
			want:    []Adjustment{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.current, tt.votes, tt.isEliminated, tt.isMol)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReasonFor(t *testing.T) {
	cases := []struct {
		isEliminated, isMol bool
		want                Reason
	}{
		{false, false, ReasonNone},
		{true, false, ReasonElimination},
		{false, true, ReasonMole},
		{true, true, ReasonMole},
	}
	for _, c := range cases {
		if got := ReasonFor(c.isEliminated, c.isMol); got != c.want {
			t.Errorf("ReasonFor(%v, %v) = %q, want %q", c.isEliminated, c.isMol, got, c.want)
		}
	}
}
