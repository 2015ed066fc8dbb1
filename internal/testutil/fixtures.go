// Package testutil builds throwaway sqlite databases seeded with a small
// assessment for repository and service tests.
package testutil

import (
	"testing"

	"github.com/lshigami/behavio/database"
	"github.com/lshigami/behavio/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory database with every table migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Fixture is the seeded assessment: three questions of different types
// linked to two behaviours.
type Fixture struct {
	Grade      model.Grade
	Leadership model.Behaviour
	Teamwork   model.Behaviour
	MCQ        model.Question
	SJT        model.Question
	FreeText   model.Question
	Test       model.Test
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// Seed writes the fixture assessment. The MCQ feeds Leadership, the SJT
// feeds both behaviours and the free-text question feeds Teamwork.
func Seed(t testing.TB, db *gorm.DB) Fixture {
	t.Helper()
	var f Fixture

	f.Grade = model.Grade{Name: "G7"}
	require.NoError(t, db.Create(&f.Grade).Error)

	f.Leadership = model.Behaviour{Name: "Leadership", GradeID: &f.Grade.ID}
	f.Teamwork = model.Behaviour{Name: "Teamwork", GradeID: &f.Grade.ID}
	require.NoError(t, db.Create(&f.Leadership).Error)
	require.NoError(t, db.Create(&f.Teamwork).Error)

	f.MCQ = model.Question{
		Prompt:        "Pick the best first step.",
		Type:          "MCQ",
		CorrectAnswer: strPtr("A"),
		Metadata:      datatypes.JSON(`{"options":["A","B","C"]}`),
	}
	f.SJT = model.Question{
		Prompt:   "Rank the responses.",
		Type:     "SJT",
		Metadata: datatypes.JSON(`{"sjtWeights":{"A":3,"B":1,"C":0}}`),
	}
	f.FreeText = model.Question{
		Prompt:   "Describe a time you resolved a conflict.",
		Type:     "FREE_TEXT",
		Metadata: datatypes.JSON(`{"rubric":[{"id":"situation","label":"Situation","max":4},{"id":"action","label":"Action","max":4}]}`),
	}
	for _, q := range []*model.Question{&f.MCQ, &f.SJT, &f.FreeText} {
		require.NoError(t, db.Create(q).Error)
	}

	links := []model.BehaviourLink{
		{QuestionID: f.MCQ.ID, BehaviourID: f.Leadership.ID, Position: 1},
		{QuestionID: f.SJT.ID, BehaviourID: f.Leadership.ID, Position: 1},
		{QuestionID: f.SJT.ID, BehaviourID: f.Teamwork.ID, Position: 2},
		{QuestionID: f.FreeText.ID, BehaviourID: f.Teamwork.ID, Position: 1},
	}
	require.NoError(t, db.Omit("Behaviour").Create(&links).Error)

	f.Test = model.Test{
		Name:             "Civil Service Behaviours G7",
		TimeLimitMinutes: 30,
		GradeID:          &f.Grade.ID,
		IsPublished:      true,
	}
	require.NoError(t, db.Omit("Questions").Create(&f.Test).Error)
	placements := []model.TestQuestion{
		{TestID: f.Test.ID, QuestionID: f.MCQ.ID, Position: intPtr(1)},
		{TestID: f.Test.ID, QuestionID: f.SJT.ID, Position: intPtr(2)},
		{TestID: f.Test.ID, QuestionID: f.FreeText.ID, Position: intPtr(3)},
	}
	require.NoError(t, db.Omit("Question").Create(&placements).Error)

	return f
}

// EmptyTest creates a published test with no questions.
func EmptyTest(t testing.TB, db *gorm.DB) model.Test {
	t.Helper()
	test := model.Test{Name: "Empty", TimeLimitMinutes: 10, IsPublished: true}
	require.NoError(t, db.Omit("Questions").Create(&test).Error)
	return test
}
