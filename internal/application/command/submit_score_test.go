package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitScore_PersistsEntryWithOfficialOverall(t *testing.T) {
	tests := []struct {
		name                                   string
		listening, reading, writing, speaking  float64
		wantOverall                            float64
	}{
		{"whole average", 6.0, 6.0, 6.0, 6.0, 6.0},
		{"fraction rounds up to half", 6.0, 6.0, 7.0, 7.0, 6.5},
		{"quarter rounds up to half", 6.0, 6.0, 6.0, 7.0, 6.5},
		{"three quarters rounds up", 6.0, 6.0, 7.0, 8.0, 7.0},
		{"mixed spread", 5.0, 6.0, 7.0, 8.0, 6.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeScoreRepo()
			handler := NewSubmitScoreHandler(repo)

			res, err := handler.Handle(context.Background(), SubmitScoreCommand{
				Username:  "demo",
				TestDay:   "2026-08-31",
				Listening: tt.listening,
				Reading:   tt.reading,
				Writing:   tt.writing,
				Speaking:  tt.speaking,
			})
			require.NoError(t, err)

			assert.NotEmpty(t, res.EntryID)
			assert.Equal(t, tt.wantOverall, res.Overall)

			stored, err := repo.ListByUser(context.Background(), "demo")
			require.NoError(t, err)
			require.Len(t, stored, 1)
			assert.Equal(t, res.EntryID, stored[0].ID)
			assert.Equal(t, tt.wantOverall, stored[0].Overall.Float())
		})
	}
}

func TestSubmitScore_RejectsInvalidBands(t *testing.T) {
	tests := []struct {
		name      string
		listening float64
	}{
		{"above range", 9.5},
		{"below range", -0.5},
		{"off the half step", 6.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeScoreRepo()
			handler := NewSubmitScoreHandler(repo)

			_, err := handler.Handle(context.Background(), SubmitScoreCommand{
				Username:  "demo",
				TestDay:   "2026-08-31",
				Listening: tt.listening,
				Reading:   6.0,
				Writing:   6.0,
				Speaking:  6.0,
			})
			assert.Error(t, err)

			// Nothing partial is ever written.
			stored, listErr := repo.ListByUser(context.Background(), "demo")
			require.NoError(t, listErr)
			assert.Empty(t, stored)
		})
	}
}

func TestSubmitScore_RejectsBadCommand(t *testing.T) {
	handler := NewSubmitScoreHandler(newFakeScoreRepo())
	ctx := context.Background()

	_, err := handler.Handle(ctx, SubmitScoreCommand{TestDay: "2026-08-31"})
	assert.Error(t, err)

	_, err = handler.Handle(ctx, SubmitScoreCommand{Username: "demo"})
	assert.Error(t, err)

	_, err = handler.Handle(ctx, SubmitScoreCommand{Username: "demo", TestDay: "yesterday"})
	assert.Error(t, err)
}

func TestSubmitScore_EntriesAccumulate(t *testing.T) {
	repo := newFakeScoreRepo()
	handler := NewSubmitScoreHandler(repo)
	ctx := context.Background()

	for _, day := range []string{"2026-08-29", "2026-08-30", "2026-08-31"} {
		_, err := handler.Handle(ctx, SubmitScoreCommand{
			Username: "demo", TestDay: day,
			Listening: 6.0, Reading: 6.0, Writing: 6.0, Speaking: 6.0,
		})
		require.NoError(t, err)
	}

	stored, err := repo.ListByUser(ctx, "demo")
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}
