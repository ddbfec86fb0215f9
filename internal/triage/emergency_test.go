package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmergencyMatcher_Detect(t *testing.T) {
	m := NewEmergencyMatcher()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"chest pain", "I have severe chest pain", true},
		{"upper case", "CHEST PRESSURE since noon", true},
		{"breathing", "there is shortness of breath", true},
		{"consciousness", "my father collapsed", true},
		{"seizure", "she had a seizure", true},
		{"bleeding", "gushing blood from the leg", true},
		{"stroke", "sudden numbness in my face", true},
		{"trauma", "a deep cut on my hand", true},
		{"substring without word boundary", "uncontrollable shaking hands", true},
		{"benign", "mild headache since yesterday", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Detect(tt.text))
		})
	}
}

func TestEmergencyMatcher_MatchReturnsFirstTrigger(t *testing.T) {
	m := NewEmergencyMatcher()

	trig, ok := m.Match("chest pain and a seizure")
	assert.True(t, ok)
	assert.Equal(t, Trigger{Category: "chest_pain", Phrase: "chest pain"}, trig)

	_, ok = m.Match("sore throat")
	assert.False(t, ok)
}

func TestEmergencyMatcher_Categories(t *testing.T) {
	assert.Equal(t, []string{
		"chest_pain", "breathing", "consciousness", "seizure",
		"bleeding", "stroke", "severe_trauma",
	}, NewEmergencyMatcher().Categories())
}
