package scoreservice

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DKZomb0/Wieler/app/events"
	playerdb "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/repositories"
	scoredomain "github.com/DKZomb0/Wieler/app/modules/score/domain"
	votedb "github.com/DKZomb0/Wieler/app/modules/vote/infrastructure/repositories"
	"github.com/DKZomb0/Wieler/app/observability/metrics"
	"github.com/DKZomb0/Wieler/app/shared/apperrors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestService(votes VoteReader, players playerdb.Repository, pub *FakePublisher) *ScoreService {
	svc := NewScoreService(
		votes,
		players,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics.NewNoop(),
		noop.NewTracerProvider().Tracer("test"),
		pub,
	)
	svc.newRunID = func() string { return "run-test" }
	return svc
}

func vote(player, candidate string, episode, points int) votedb.Vote {
	return votedb.Vote{ID: uuid.New(), Player: player, Candidate: candidate, Episode: episode, Points: points}
}

func TestRecalculateMoleCreditsEveryVote(t *testing.T) {
	votes := &FakeVoteReader{Votes: []votedb.Vote{
		vote("p1", "X", 1, 40),
		vote("p2", "X", 1, 25),
		vote("p1", "Y", 1, 60),
	}}
	players := NewFakePlayerRepo(map[string]int{"p1": 10, "p2": 0})
	pub := &FakePublisher{}

	outcome, err := newTestService(votes, players, pub).Recalculate(context.Background(), "X", false, true)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"p1": 50, "p2": 25}, players.Points())
	assert.Equal(t, scoredomain.ReasonMole, outcome.Reason)
	assert.Equal(t, []scoredomain.Adjustment{
		{Player: "p1", Previous: 10, Delta: 40, Next: 50},
		{Player: "p2", Previous: 0, Delta: 25, Next: 25},
	}, outcome.Adjustments)

	msgs := pub.Messages(events.ScoreRecalculatedV1)
	require.Len(t, msgs, 1)
	var payload events.ScoreRecalculatedPayloadV1
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
	assert.Equal(t, "run-test", payload.RunID)
	assert.Equal(t, "X", payload.Candidate)
	assert.Equal(t, "mole", payload.Reason)
	assert.Equal(t, []events.ScoreAdjustmentV1{
		{Player: "p1", Delta: 40, NewTotal: 50},
		{Player: "p2", Delta: 25, NewTotal: 25},
	}, payload.Adjustments)
}

func TestRecalculateEliminationDeductsOnlyLatestVote(t *testing.T) {
	votes := &FakeVoteReader{Votes: []votedb.Vote{
		vote("p1", "X", 3, 20),
		vote("p1", "X", 1, 10),
	}}
	players := NewFakePlayerRepo(map[string]int{"p1": 100})

	_, err := newTestService(votes, players, &FakePublisher{}).Recalculate(context.Background(), "X", true, false)
	require.NoError(t, err)

	assert.Equal(t, 80, players.Points()["p1"])
}

// Recalculate is edge triggered: running it twice for one transition applies
// the adjustment twice. Callers must guarantee a single call per transition.
func TestRecalculateTwiceDoublesTheAdjustment(t *testing.T) {
	tests := []struct {
		name         string
		isEliminated bool
		isMol        bool
		want         map[string]int
	}{
		{name: "mole", isMol: true, want: map[string]int{"p1": 90, "p2": 50}},
		{name: "elimination", isEliminated: true, want: map[string]int{"p1": -70, "p2": -50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			votes := &FakeVoteReader{Votes: []votedb.Vote{
				vote("p1", "X", 1, 40),
				vote("p2", "X", 1, 25),
			}}
			players := NewFakePlayerRepo(map[string]int{"p1": 10, "p2": 0})
			svc := newTestService(votes, players, &FakePublisher{})

			for i := 0; i < 2; i++ {
				_, err := svc.Recalculate(context.Background(), "X", tt.isEliminated, tt.isMol)
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want, players.Points())
		})
	}
}

func TestRecalculateWritesOnlyAdjustedPlayers(t *testing.T) {
	votes := &FakeVoteReader{Votes: []votedb.Vote{
		vote("p1", "X", 2, 30),
		vote("ghost", "X", 2, 70),
	}}
	players := NewFakePlayerRepo(map[string]int{"p1": 0, "p2": 5, "p3": 9})

	_, err := newTestService(votes, players, &FakePublisher{}).Recalculate(context.Background(), "X", false, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"List", "CompareAndSetPoints:p1"}, players.Trace())
	assert.Equal(t, map[string]int{"p1": 30, "p2": 5, "p3": 9}, players.Points())
}

func TestRecalculateRevertIsNoOp(t *testing.T) {
	votes := &FakeVoteReader{Votes: []votedb.Vote{vote("p1", "X", 1, 40)}}
	players := NewFakePlayerRepo(map[string]int{"p1": 10})
	pub := &FakePublisher{}

	outcome, err := newTestService(votes, players, pub).Recalculate(context.Background(), "X", false, false)
	require.NoError(t, err)

	assert.Equal(t, scoredomain.ReasonNone, outcome.Reason)
	assert.Empty(t, outcome.Adjustments)
	assert.Equal(t, 0, votes.Calls)
	assert.Empty(t, players.Trace())
	assert.Empty(t, pub.Messages(events.ScoreRecalculatedV1))
}

func TestRecalculateValidation(t *testing.T) {
	votes := &FakeVoteReader{}
	players := NewFakePlayerRepo(nil)

	_, err := newTestService(votes, players, &FakePublisher{}).Recalculate(context.Background(), "  ", true, false)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, votes.Calls)
	assert.Empty(t, players.Trace())
}

func TestRecalculateLoadFailures(t *testing.T) {
	tests := []struct {
		name      string
		votesErr  error
		setupRepo func(*FakePlayerRepo)
		wantStep  apperrors.RecalculationStep
	}{
		{
			name:     "votes",
			votesErr: errors.New("votes unavailable"),
			wantStep: apperrors.StepLoadVotes,
		},
		{
			name: "players",
			setupRepo: func(r *FakePlayerRepo) {
				r.ListFunc = func(context.Context, bun.IDB) ([]playerdb.Player, error) {
					return nil, errors.New("players unavailable")
				}
			},
			wantStep: apperrors.StepLoadPlayers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			votes := &FakeVoteReader{Err: tt.votesErr, Votes: []votedb.Vote{vote("p1", "X", 1, 10)}}
			players := NewFakePlayerRepo(map[string]int{"p1": 0})
			if tt.setupRepo != nil {
				tt.setupRepo(players)
			}

			_, err := newTestService(votes, players, &FakePublisher{}).Recalculate(context.Background(), "X", true, false)
			require.Error(t, err)

			var recalcErr *apperrors.RecalculationError
			require.ErrorAs(t, err, &recalcErr)
			assert.Equal(t, tt.wantStep, recalcErr.Step)
			assert.Equal(t, 0, recalcErr.Persisted)
			assert.True(t, apperrors.IsStore(err))
			assert.Equal(t, map[string]int{"p1": 0}, players.Points())
		})
	}
}

func TestRecalculatePersistFailureKeepsEarlierWrites(t *testing.T) {
	votes := &FakeVoteReader{Votes: []votedb.Vote{
		vote("a", "X", 1, 10),
		vote("b", "X", 1, 20),
		vote("c", "X", 1, 30),
	}}
	players := NewFakePlayerRepo(map[string]int{"a": 0, "b": 0, "c": 0})
	players.CompareAndSetPointsFunc = func(_ context.Context, _ bun.IDB, name string, expected, next int) error {
		if name == "b" {
			return errors.New("write timeout")
		}
		return players.compareAndSet(name, expected, next)
	}
	pub := &FakePublisher{}

	_, err := newTestService(votes, players, pub).Recalculate(context.Background(), "X", false, true)
	require.Error(t, err)

	var recalcErr *apperrors.RecalculationError
	require.ErrorAs(t, err, &recalcErr)
	assert.Equal(t, apperrors.StepPersistScores, recalcErr.Step)
	assert.Equal(t, 1, recalcErr.Persisted)

	assert.Equal(t, map[string]int{"a": 10, "b": 0, "c": 0}, players.Points())
	assert.NotContains(t, players.Trace(), "CompareAndSetPoints:c")

	msgs := pub.Messages(events.ScoreRecalculatedV1)
	require.Len(t, msgs, 1)
	var payload events.ScoreRecalculatedPayloadV1
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
	assert.Equal(t, []events.ScoreAdjustmentV1{{Player: "a", Delta: 10, NewTotal: 10}}, payload.Adjustments)
}

func TestRecalculateRetriesOnConcurrentWrite(t *testing.T) {
	votes := &FakeVoteReader{Votes: []votedb.Vote{vote("p1", "X", 1, 40)}}
	players := NewFakePlayerRepo(map[string]int{"p1": 10})

	raced := false
	players.ListFunc = func(context.Context, bun.IDB) ([]playerdb.Player, error) {
		return []playerdb.Player{{Name: "p1", Points: 10}}, nil
	}
	players.CompareAndSetPointsFunc = func(_ context.Context, _ bun.IDB, name string, expected, next int) error {
		if !raced {
			raced = true
			// Another recalculation lands first.
			players.SetStored(name, 15)
		}
		return players.compareAndSet(name, expected, next)
	}

	outcome, err := newTestService(votes, players, &FakePublisher{}).Recalculate(context.Background(), "X", false, true)
	require.NoError(t, err)

	assert.Equal(t, 55, players.Points()["p1"])
	assert.Equal(t, []scoredomain.Adjustment{{Player: "p1", Previous: 15, Delta: 40, Next: 55}}, outcome.Adjustments)
	assert.Equal(t, []string{"List", "CompareAndSetPoints:p1", "Get:p1", "CompareAndSetPoints:p1"}, players.Trace())
}

func TestRecalculateGivesUpAfterRepeatedConflicts(t *testing.T) {
	votes := &FakeVoteReader{Votes: []votedb.Vote{vote("p1", "X", 1, 40)}}
	players := NewFakePlayerRepo(map[string]int{"p1": 10})
	players.CompareAndSetPointsFunc = func(context.Context, bun.IDB, string, int, int) error {
		return playerdb.ErrPointsConflict
	}

	_, err := newTestService(votes, players, &FakePublisher{}).Recalculate(context.Background(), "X", false, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, playerdb.ErrPointsConflict)

	attempts := 0
	for _, step := range players.Trace() {
		if step == "CompareAndSetPoints:p1" {
			attempts++
		}
	}
	assert.Equal(t, maxWriteAttempts, attempts)
}

func TestRecalculateSkipsPlayerRemovedMidRun(t *testing.T) {
	votes := &FakeVoteReader{Votes: []votedb.Vote{
		vote("gone", "X", 1, 10),
		vote("p1", "X", 1, 20),
	}}
	players := NewFakePlayerRepo(map[string]int{"p1": 0})
	players.ListFunc = func(context.Context, bun.IDB) ([]playerdb.Player, error) {
		return []playerdb.Player{{Name: "gone", Points: 0}, {Name: "p1", Points: 0}}, nil
	}

	outcome, err := newTestService(votes, players, &FakePublisher{}).Recalculate(context.Background(), "X", false, true)
	require.NoError(t, err)
	require.Len(t, outcome.Adjustments, 1)
	assert.Equal(t, "p1", outcome.Adjustments[0].Player)
	assert.Equal(t, 20, players.Points()["p1"])
}

func TestRecalculatePublishFailureDoesNotFailRun(t *testing.T) {
	votes := &FakeVoteReader{Votes: []votedb.Vote{vote("p1", "X", 1, 40)}}
	players := NewFakePlayerRepo(map[string]int{"p1": 0})

	_, err := newTestService(votes, players, &FakePublisher{Err: errors.New("bus closed")}).Recalculate(context.Background(), "X", false, true)
	require.NoError(t, err)
	assert.Equal(t, 40, players.Points()["p1"])
}
