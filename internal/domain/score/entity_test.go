package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBand_IsValid(t *testing.T) {
	valid := []Band{0, 0.5, 4, 6.5, 8.5, 9}
	for _, b := range valid {
		assert.True(t, b.IsValid(), "band %v should be valid", b)
	}

	invalid := []Band{-0.5, 9.5, 6.25, 7.1, 100}
	for _, b := range invalid {
		assert.False(t, b.IsValid(), "band %v should be invalid", b)
	}
}

func TestOverall_BandingTable(t *testing.T) {
	tests := []struct {
		name       string
		l, r, w, s Band
		want       Band
	}{
		{"uniform whole", 6, 6, 6, 6, 6.0},
		{"exact half", 6, 6, 7, 7, 6.5},
		{"frac .25 rounds up to half", 6, 6, 6, 7, 6.5},
		{"frac .125 rounds down", 6, 6, 6, 6.5, 6.0},
		{"spread with half average", 5, 6, 7, 8, 6.5},
		{"whole average", 6, 7, 7, 8, 7.0},
		{"frac .375 rounds to half", 6, 6, 6, 7.5, 6.5},
		{"frac .75 rounds up to whole", 6, 6, 7, 8, 7.0},
		{"frac .625 stays at half", 6, 6, 6.5, 8, 6.5},
		{"frac .875 rounds up", 6.5, 7, 7, 7, 7.0},
		{"all zero", 0, 0, 0, 0, 0.0},
		{"all nine", 9, 9, 9, 9, 9.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overall(tt.l, tt.r, tt.w, tt.s)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Exhaustive check that the rounding is exact for every reachable fractional
// average. All combinations of half-step bands reduce to fractions in
// {0, .125, .25, .375, .5, .625, .75, .875}.
func TestOverall_AllFractionsExact(t *testing.T) {
	for eighths := 0; eighths <= 72; eighths++ {
		avg := float64(eighths) / 8.0
		// Build four half-step values whose sum is avg*4 = eighths/2.
		// eighths/2 halves distributed over four scores.
		halves := eighths // sum of the four scores in half-band units is eighths/2*2
		var parts [4]int
		for i := 0; i < 4; i++ {
			p := halves / (4 - i)
			if p > 18 {
				p = 18
			}
			parts[i] = p
			halves -= p
		}
		if halves != 0 {
			continue // not representable with four bands, skip
		}

		got := Overall(Band(float64(parts[0])/2), Band(float64(parts[1])/2), Band(float64(parts[2])/2), Band(float64(parts[3])/2))

		whole := float64(int(avg))
		frac := avg - whole
		var want float64
		switch {
		case frac < 0.25:
			want = whole
		case frac < 0.75:
			want = whole + 0.5
		default:
			want = whole + 1.0
		}
		assert.Equal(t, Band(want), got, "avg %v", avg)
	}
}

func TestNewEntry_ComputesAndFreezesOverall(t *testing.T) {
	now := time.Now().UTC()
	e, err := NewEntry("e1", "demo", "2026-08-31", 6, 6, 6, 7, now)
	require.NoError(t, err)

	assert.Equal(t, Band(6.5), e.Overall)
	assert.Equal(t, "demo", e.Username)
	assert.Equal(t, now, e.SubmittedAt)
}

func TestNewEntry_RejectsBadInput(t *testing.T) {
	now := time.Now().UTC()

	_, err := NewEntry("e1", "demo", "2026-08-31", 6.25, 6, 6, 6, now)
	assert.ErrorIs(t, err, ErrInvalidBand)

	_, err = NewEntry("e1", "demo", "2026-08-31", 6, 9.5, 6, 6, now)
	assert.ErrorIs(t, err, ErrInvalidBand)

	_, err = NewEntry("e1", "", "2026-08-31", 6, 6, 6, 6, now)
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = NewEntry("", "demo", "2026-08-31", 6, 6, 6, 6, now)
	assert.ErrorIs(t, err, ErrInvalidEntryID)

	_, err = NewEntry("e1", "demo", "", 6, 6, 6, 6, now)
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestEntry_Sub(t *testing.T) {
	e, err := NewEntry("e1", "demo", "2026-08-31", 5, 5.5, 6, 6.5, time.Now())
	require.NoError(t, err)

	assert.Equal(t, Band(5), e.Sub(SkillListening))
	assert.Equal(t, Band(5.5), e.Sub(SkillReading))
	assert.Equal(t, Band(6), e.Sub(SkillWriting))
	assert.Equal(t, Band(6.5), e.Sub(SkillSpeaking))
}
