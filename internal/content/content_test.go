package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learntrack/internal/model"
)

func TestNewValidatesPerType(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		content model.ModuleContent
		wantErr bool
	}{
		{"video url", model.ModuleVideo, model.ModuleContent{URL: "https://cdn.example.com/a.mp4", DurationMinutes: 12}, false},
		{"video upload", model.ModuleVideo, model.ModuleContent{StorageKey: "modules/m1/a.mp4", DurationMinutes: 3}, false},
		{"video awaiting upload", model.ModuleVideo, model.ModuleContent{DurationMinutes: 3}, false},
		{"video no duration", model.ModuleVideo, model.ModuleContent{URL: "https://cdn.example.com/a.mp4"}, true},
		{"video bad url", model.ModuleVideo, model.ModuleContent{URL: "ftp://x", DurationMinutes: 1}, true},
		{"text", model.ModuleText, model.ModuleContent{Body: "hello"}, false},
		{"text empty", model.ModuleText, model.ModuleContent{Body: "  "}, true},
		{"quiz", model.ModuleQuiz, model.ModuleContent{DurationMinutes: 10}, false},
		{"quiz with body", model.ModuleQuiz, model.ModuleContent{Body: "q"}, true},
		{"assignment", model.ModuleAssignment, model.ModuleContent{Instructions: "build it", DueInDays: 7}, false},
		{"assignment no instructions", model.ModuleAssignment, model.ModuleContent{}, true},
		{"interactive", model.ModuleInteractive, model.ModuleContent{URL: "https://play.example.com"}, false},
		{"interactive no url", model.ModuleInteractive, model.ModuleContent{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.typ, tt.content)
			require.NoError(t, err)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}

func TestNewUnknownType(t *testing.T) {
	_, err := New("podcast", model.ModuleContent{})
	assert.True(t, errors.Is(err, ErrUnknownType))
}

func TestTextEstimatedMinutes(t *testing.T) {
	body := ""
	for i := 0; i < 450; i++ {
		body += "word "
	}
	c, err := New(model.ModuleText, model.ModuleContent{Body: body})
	require.NoError(t, err)
	assert.Equal(t, 3, c.EstimatedMinutes())
}

func TestEstimatedMinutesPerType(t *testing.T) {
	assert.Equal(t, 12, EstimatedMinutes(model.ModuleVideo, model.ModuleContent{DurationMinutes: 12}))
	assert.Equal(t, 1, EstimatedMinutes(model.ModuleText, model.ModuleContent{Body: "short read"}))
	assert.Equal(t, 5, EstimatedMinutes(model.ModuleText, model.ModuleContent{Body: "short read", DurationMinutes: 5}))
	assert.Equal(t, 0, EstimatedMinutes("podcast", model.ModuleContent{DurationMinutes: 9}))
}
