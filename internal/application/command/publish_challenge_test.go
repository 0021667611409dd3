package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ielts-momentum/momentum-hub/internal/domain/challenge"
)

func TestPublishChallenge_DerivesXPWithoutPersisting(t *testing.T) {
	handler := NewPublishChallengeHandler()

	res, err := handler.Handle(context.Background(), PublishChallengeCommand{
		ActingAdmin: "admin",
		Skill:       challenge.SkillSpeaking,
		Difficulty:  challenge.DifficultyHard,
		Duration:    "15 min",
	})
	require.NoError(t, err)

	assert.Equal(t, challenge.SkillSpeaking, res.Skill)
	assert.Equal(t, challenge.DifficultyHard, res.Difficulty)
	assert.Equal(t, "15 min", res.Duration)
	assert.Equal(t, 30, res.XP)
	assert.False(t, res.Persisted)
}

func TestPublishChallenge_XPFollowsDifficultyTable(t *testing.T) {
	handler := NewPublishChallengeHandler()
	ctx := context.Background()

	tests := []struct {
		difficulty challenge.Difficulty
		wantXP     int
	}{
		{challenge.DifficultyEasy, 10},
		{challenge.DifficultyMedium, 20},
		{challenge.DifficultyHard, 30},
	}

	for _, tt := range tests {
		res, err := handler.Handle(ctx, PublishChallengeCommand{
			ActingAdmin: "admin",
			Skill:       challenge.SkillReading,
			Difficulty:  tt.difficulty,
		})
		require.NoError(t, err)
		assert.Equal(t, tt.wantXP, res.XP)
	}
}

func TestPublishChallenge_Validation(t *testing.T) {
	handler := NewPublishChallengeHandler()
	ctx := context.Background()

	_, err := handler.Handle(ctx, PublishChallengeCommand{Skill: challenge.SkillReading, Difficulty: challenge.DifficultyEasy})
	assert.Error(t, err)

	_, err = handler.Handle(ctx, PublishChallengeCommand{ActingAdmin: "admin", Skill: "Grammar", Difficulty: challenge.DifficultyEasy})
	assert.Error(t, err)

	_, err = handler.Handle(ctx, PublishChallengeCommand{ActingAdmin: "admin", Skill: challenge.SkillReading, Difficulty: "Extreme"})
	assert.Error(t, err)
}
