package triage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionsFor_Categories(t *testing.T) {
	tests := []struct {
		symptom string
		first   string
	}{
		{"headache", headacheQuestions[0]},
		{"Head pain after a fall", headacheQuestions[0]},
		{"chest pain", chestPainQuestions[0]},
		{"heart racing", chestPainQuestions[0]},
		{"stomach ache", abdominalPainQuestions[0]},
		{"belly cramps", abdominalPainQuestions[0]},
		{"high temperature", feverQuestions[0]},
		{"short of breath", breathingQuestions[0]},
		{"headache with fever", headacheQuestions[0]},
	}

	for _, tt := range tests {
		t.Run(tt.symptom, func(t *testing.T) {
			qs := QuestionsFor(tt.symptom)
			assert.Len(t, qs, 8)
			assert.Equal(t, tt.first, qs[0])
		})
	}
}

func TestQuestionsFor_Fallback(t *testing.T) {
	qs := QuestionsFor("rash")

	assert.Len(t, qs, 5)
	assert.Equal(t, "Describe your rash in more detail", qs[0])
	assert.Equal(t, "Any other symptoms?", qs[4])
}

func TestQuestionsFor_ReturnsCopy(t *testing.T) {
	qs := QuestionsFor("headache")
	qs[0] = "changed"

	assert.Equal(t, headacheQuestions[0], QuestionsFor("headache")[0])
}

func TestNextQuestion(t *testing.T) {
	q, ok := NextQuestion("headache", nil)
	assert.True(t, ok)
	assert.Equal(t, "Where exactly is the headache? (forehead, temples, back of head, all over)", q)

	q, ok = NextQuestion("headache", []string{"temples", "throbbing"})
	assert.True(t, ok)
	assert.Equal(t, headacheQuestions[2], q)

	answers := strings.Split("a,b,c,d,e,f,g,h", ",")
	q, ok = NextQuestion("headache", answers)
	assert.False(t, ok)
	assert.Empty(t, q)

	q, ok = NextQuestion("rash", answers[:5])
	assert.False(t, ok)
	assert.Empty(t, q)
}

func TestNextQuestion_Restartable(t *testing.T) {
	answers := []string{"center"}
	first, _ := NextQuestion("chest pain", answers)
	second, _ := NextQuestion("chest pain", answers)

	assert.Equal(t, first, second)
}
