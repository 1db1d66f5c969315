package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCourseCloneIsDeep(t *testing.T) {
	orig := &Course{
		ID:        "c1",
		Title:     "Go",
		Tags:      []string{"go"},
		Syllabus:  []string{"m1", "m2"},
		CreatedAt: time.Now(),
	}

	cp := orig.Clone()
	cp.Tags[0] = "rust"
	cp.Syllabus = append(cp.Syllabus[:1], "m9")

	assert.Empty(t, cp.ID)
	assert.True(t, cp.CreatedAt.IsZero())
	assert.Equal(t, []string{"go"}, orig.Tags)
	assert.Equal(t, []string{"m1", "m2"}, orig.Syllabus)
}

func TestQuizWithoutAnswersLeavesOriginal(t *testing.T) {
	q := &Quiz{Questions: []Question{{ID: "q1", CorrectAnswers: []string{"a"}, Explanation: "because", Points: 2}}}

	public := q.WithoutAnswers()

	assert.Nil(t, public.Questions[0].CorrectAnswers)
	assert.Empty(t, public.Questions[0].Explanation)
	assert.Equal(t, []string{"a"}, q.Questions[0].CorrectAnswers)
	assert.Equal(t, 2.0, q.MaxScore())
}

func TestQuizCloneRelinks(t *testing.T) {
	q := &Quiz{ID: "z", CourseID: "c1", ModuleID: "m1", Questions: []Question{{ID: "q1", Options: []string{"a", "b"}}}}

	cp := q.Clone("c2", "m2")
	cp.Questions[0].Options[0] = "x"

	assert.Empty(t, cp.ID)
	assert.Equal(t, "c2", cp.CourseID)
	assert.Equal(t, "m2", cp.ModuleID)
	assert.Equal(t, "a", q.Questions[0].Options[0])
}

func TestCourseStatsAverage(t *testing.T) {
	s := &CourseStats{}
	assert.Zero(t, s.AverageQuizPercentage())

	s.QuizAttempts = 2
	s.TotalQuizPercentage = 150
	assert.Equal(t, 75.0, s.AverageQuizPercentage())
}
