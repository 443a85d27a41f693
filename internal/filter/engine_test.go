package filter

import (
	"testing"

	"github.com/silent2803/NurtiDuo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool() []models.Candidate {
	return []models.Candidate{
		{ID: "1", Username: "Gamer1", Gender: models.GenderMale, Age: 25, Bio: "duo partner wanted"},
		{ID: "2", Username: "ProPlayer", Gender: models.GenderFemale, Age: 22, Bio: "rank grind"},
		{ID: "3", Username: "NoobMaster", Gender: models.GenderMale, Age: 19, Bio: "just starting"},
		{ID: "4", Username: "QueenBee", Gender: models.GenderFemale, Age: 24, Bio: "mid main"},
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, MinAge, cfg.MinAge)
	assert.Equal(t, MaxAge, cfg.MaxAge)
	assert.True(t, cfg.IncludeMale)
	assert.True(t, cfg.IncludeFemale)
}

func TestSetMinAge_Clamping(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantMin int
	}{
		{"below lower bound", 5, 13},
		{"at lower bound", 13, 13},
		{"in range", 30, 30},
		{"above upper bound", 99, 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine()
			e.SetMinAge(tt.value)
			assert.Equal(t, tt.wantMin, e.Config().MinAge)
		})
	}
}

func TestSetMinAge_PushesMaxUp(t *testing.T) {
	e := NewEngine()
	e.SetMaxAge(30)
	e.SetMinAge(40)

	cfg := e.Config()
	assert.Equal(t, 40, cfg.MinAge)
	assert.Equal(t, 40, cfg.MaxAge)
}

func TestSetMaxAge_PushesMinDown(t *testing.T) {
	e := NewEngine()
	e.SetMinAge(40)
	e.SetMaxAge(20)

	cfg := e.Config()
	assert.Equal(t, 20, cfg.MinAge)
	assert.Equal(t, 20, cfg.MaxAge)
}

func TestAgeBounds_InvariantUnderMutationSequences(t *testing.T) {
	sequences := [][]struct {
		setMin bool
		value  int
	}{
		{{true, 40}, {false, 20}, {true, 5}, {false, 99}},
		{{false, 13}, {true, 65}, {false, 30}, {true, 30}},
		{{true, -10}, {false, -10}, {true, 200}, {false, 200}},
	}

	for _, seq := range sequences {
		e := NewEngine()
		for _, step := range seq {
			if step.setMin {
				e.SetMinAge(step.value)
			} else {
				e.SetMaxAge(step.value)
			}

			cfg := e.Config()
			assert.LessOrEqual(t, cfg.MinAge, cfg.MaxAge)
			assert.GreaterOrEqual(t, cfg.MinAge, MinAge)
			assert.LessOrEqual(t, cfg.MaxAge, MaxAge)
		}
	}
}

func TestSetGenderIncluded(t *testing.T) {
	e := NewEngine()

	e.SetGenderIncluded(models.GenderMale, false)
	assert.False(t, e.Config().IncludeMale)
	assert.True(t, e.Config().IncludeFemale)

	e.SetGenderIncluded(models.GenderFemale, false)
	assert.False(t, e.Config().IncludeFemale)

	// Both flags off is legal and simply yields an empty result.
	assert.Empty(t, e.Apply(testPool()))

	// Genders without a flag are ignored.
	e.SetGenderIncluded(models.GenderOther, true)
	assert.Empty(t, e.Apply(testPool()))
}

func TestApply_AgeAndGenderScenario(t *testing.T) {
	pool := []models.Candidate{
		{ID: "1", Gender: models.GenderMale, Age: 25},
		{ID: "2", Gender: models.GenderFemale, Age: 22},
		{ID: "3", Gender: models.GenderMale, Age: 19},
	}

	e := NewEngine()
	e.SetMinAge(20)
	e.SetMaxAge(30)
	e.SetGenderIncluded(models.GenderFemale, false)

	visible := e.Apply(pool)
	require.Len(t, visible, 1)
	assert.Equal(t, "1", visible[0].ID)
}

func TestApply_AgeRangeInclusive(t *testing.T) {
	pool := []models.Candidate{
		{ID: "low", Gender: models.GenderMale, Age: 20},
		{ID: "high", Gender: models.GenderMale, Age: 30},
		{ID: "under", Gender: models.GenderMale, Age: 19},
		{ID: "over", Gender: models.GenderMale, Age: 31},
	}

	e := NewEngine()
	e.SetMinAge(20)
	e.SetMaxAge(30)

	visible := e.Apply(pool)
	require.Len(t, visible, 2)
	assert.Equal(t, "low", visible[0].ID)
	assert.Equal(t, "high", visible[1].ID)
}

func TestApply_PreservesOrderAndIsPure(t *testing.T) {
	e := NewEngine()
	pool := testPool()

	first := e.Apply(pool)
	second := e.Apply(pool)

	assert.Equal(t, first, second)

	ids := make([]string, 0, len(first))
	for _, c := range first {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)

	// The pool itself is never mutated.
	assert.Equal(t, testPool(), pool)
}

func TestApply_OtherGenderNeverMatches(t *testing.T) {
	pool := []models.Candidate{
		{ID: "1", Gender: models.GenderOther, Age: 25},
		{ID: "2", Gender: models.GenderMale, Age: 25},
	}

	e := NewEngine()
	visible := e.Apply(pool)

	require.Len(t, visible, 1)
	assert.Equal(t, "2", visible[0].ID)
}

func TestApply_EmptyPool(t *testing.T) {
	e := NewEngine()
	assert.Empty(t, e.Apply(nil))
}
