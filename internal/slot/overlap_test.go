package slot

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bangkok = time.FixedZone("ICT", 7*60*60)

func at(day int, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, bangkok)
}

func mustSlot(t *testing.T, fieldID int64, start, end time.Time) TimeSlot {
	t.Helper()
	s, err := New(fieldID, start, end)
	require.NoError(t, err)
	return s
}

func TestNew_RejectsEmptyInterval(t *testing.T) {
	_, err := New(1, at(1, 10, 0), at(1, 10, 0))
	assert.ErrorIs(t, err, ErrEmptyInterval)

	_, err = New(1, at(1, 11, 0), at(1, 10, 0))
	assert.ErrorIs(t, err, ErrEmptyInterval)
}

func TestIsOverlapping(t *testing.T) {
	tests := []struct {
		name      string
		candidate TimeSlot
		existing  []TimeSlot
		want      bool
	}{
		{
			name:      "touching end to start",
			candidate: TimeSlot{FieldID: 1, Start: at(1, 10, 0), End: at(1, 11, 0)},
			existing:  []TimeSlot{{FieldID: 1, Start: at(1, 11, 0), End: at(1, 12, 0)}},
			want:      false,
		},
		{
			name:      "touching start to end",
			candidate: TimeSlot{FieldID: 1, Start: at(1, 12, 0), End: at(1, 13, 0)},
			existing:  []TimeSlot{{FieldID: 1, Start: at(1, 11, 0), End: at(1, 12, 0)}},
			want:      false,
		},
		{
			name:      "strict overlap",
			candidate: TimeSlot{FieldID: 1, Start: at(1, 10, 0), End: at(1, 11, 30)},
			existing:  []TimeSlot{{FieldID: 1, Start: at(1, 11, 0), End: at(1, 12, 0)}},
			want:      true,
		},
		{
			name:      "candidate contains existing",
			candidate: TimeSlot{FieldID: 1, Start: at(1, 9, 0), End: at(1, 13, 0)},
			existing:  []TimeSlot{{FieldID: 1, Start: at(1, 11, 0), End: at(1, 12, 0)}},
			want:      true,
		},
		{
			name:      "identical interval",
			candidate: TimeSlot{FieldID: 1, Start: at(1, 18, 0), End: at(1, 19, 0)},
			existing:  []TimeSlot{{FieldID: 1, Start: at(1, 18, 0), End: at(1, 19, 0)}},
			want:      true,
		},
		{
			name:      "other field",
			candidate: TimeSlot{FieldID: 2, Start: at(1, 10, 0), End: at(1, 12, 0)},
			existing:  []TimeSlot{{FieldID: 1, Start: at(1, 11, 0), End: at(1, 12, 0)}},
			want:      false,
		},
		{
			name:      "same time of day on another date",
			candidate: TimeSlot{FieldID: 1, Start: at(2, 18, 0), End: at(2, 19, 0)},
			existing:  []TimeSlot{{FieldID: 1, Start: at(1, 18, 0), End: at(1, 19, 0)}},
			want:      false,
		},
		{
			name:      "empty existing",
			candidate: TimeSlot{FieldID: 1, Start: at(1, 18, 0), End: at(1, 19, 0)},
			want:      false,
		},
		{
			name:      "second of several conflicts",
			candidate: TimeSlot{FieldID: 1, Start: at(1, 15, 0), End: at(1, 16, 30)},
			existing: []TimeSlot{
				{FieldID: 1, Start: at(1, 13, 0), End: at(1, 15, 0)},
				{FieldID: 1, Start: at(1, 16, 0), End: at(1, 17, 0)},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOverlapping(tt.candidate, tt.existing))
		})
	}
}

func TestIsOverlapping_Symmetric(t *testing.T) {
	faker := gofakeit.New(42)

	for i := 0; i < 500; i++ {
		day := faker.IntRange(1, 3)
		aStart := at(day, faker.IntRange(6, 21), faker.RandomInt([]int{0, 30}))
		bStart := at(day, faker.IntRange(6, 21), faker.RandomInt([]int{0, 30}))
		a := mustSlot(t, 1, aStart, aStart.Add(time.Duration(faker.IntRange(2, 6))*30*time.Minute))
		b := mustSlot(t, 1, bStart, bStart.Add(time.Duration(faker.IntRange(2, 6))*30*time.Minute))

		require.Equal(t,
			IsOverlapping(a, []TimeSlot{b}),
			IsOverlapping(b, []TimeSlot{a}),
			"a=%v-%v b=%v-%v", a.Start, a.End, b.Start, b.End)
	}
}

func TestIsOverlapping_CrossDateIndependence(t *testing.T) {
	faker := gofakeit.New(7)

	for i := 0; i < 200; i++ {
		hour := faker.IntRange(0, 22)
		otherDay := 10 + faker.IntRange(1, 10)
		a := mustSlot(t, 1, at(10, hour, 0), at(10, hour+1, 0))
		b := mustSlot(t, 1, at(otherDay, hour, 0), at(otherDay, hour+1, 0))

		assert.False(t, IsOverlapping(a, []TimeSlot{b}))
		assert.False(t, IsOverlapping(b, []TimeSlot{a}))
	}
}

func TestIsOverlapping_ComparesInCandidateLocation(t *testing.T) {
	// 18:00 UTC 1 января это 01:00 2 января по Бангкоку
	utcSlot := TimeSlot{
		FieldID: 1,
		Start:   time.Date(2024, time.January, 1, 18, 0, 0, 0, time.UTC),
		End:     time.Date(2024, time.January, 1, 19, 0, 0, 0, time.UTC),
	}
	local := TimeSlot{FieldID: 1, Start: at(2, 0, 30), End: at(2, 1, 30)}

	assert.True(t, IsOverlapping(local, []TimeSlot{utcSlot}))
}

func TestTimeSlot_EndsWithinDay(t *testing.T) {
	assert.True(t, mustSlot(t, 1, at(1, 23, 0), at(2, 0, 0)).EndsWithinDay())
	assert.False(t, mustSlot(t, 1, at(1, 23, 0), at(2, 0, 30)).EndsWithinDay())
	assert.True(t, mustSlot(t, 1, at(1, 8, 0), at(1, 9, 0)).EndsWithinDay())
}

func TestTimeSlot_Minutes(t *testing.T) {
	s := mustSlot(t, 1, at(1, 16, 30), at(1, 18, 0))
	assert.Equal(t, 90, s.Minutes())
	assert.Equal(t, at(1, 0, 0), s.Date())
	assert.True(t, s.Touches(TimeSlot{FieldID: 1, Start: at(1, 18, 0), End: at(1, 19, 0)}))
}
