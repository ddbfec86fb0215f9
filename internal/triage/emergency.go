package triage

import "strings"

// Trigger identifies the phrase that caused an emergency match.
type Trigger struct {
	Category string `json:"category"`
	Phrase   string `json:"phrase"`
}

type triggerGroup struct {
	category string
	phrases  []string
}

// emergencyTriggers is checked in order; the first phrase found wins.
var emergencyTriggers = []triggerGroup{
	{"chest_pain", []string{
		"chest pain", "chest tightness", "chest pressure",
		"radiating pain", "shoulder pain with chest",
	}},
	{"breathing", []string{
		"difficulty breathing", "shortness of breath", "gasping",
		"severe breathing", "choking",
	}},
	{"consciousness", []string{
		"unconscious", "fainted", "collapsed", "passed out",
		"unresponsive", "dizzy with vision loss",
	}},
	{"seizure", []string{
		"seizure", "convulsion", "shaking", "losing consciousness and shaking",
	}},
	{"bleeding", []string{
		"heavy bleeding", "severe bleeding", "uncontrolled bleeding",
		"bleeding from", "gushing blood",
	}},
	{"stroke", []string{
		"facial drooping", "arm weakness", "speech difficulty",
		"sudden numbness", "loss of balance",
	}},
	{"severe_trauma", []string{
		"severe burn", "deep cut", "impalement", "severe crush",
		"loss of consciousness from injury",
	}},
}

// EmergencyMatcher flags text that must bypass the questionnaire. Matching is
// plain case-insensitive substring containment with no word boundaries: a
// false positive costs an extra safety prompt, a false negative does not.
type EmergencyMatcher struct {
	groups []triggerGroup
}

func NewEmergencyMatcher() *EmergencyMatcher {
	return &EmergencyMatcher{groups: emergencyTriggers}
}

// Detect reports whether text contains any emergency trigger.
func (m *EmergencyMatcher) Detect(text string) bool {
	_, ok := m.Match(text)
	return ok
}

// Match returns the first trigger found in text.
func (m *EmergencyMatcher) Match(text string) (Trigger, bool) {
	lower := strings.ToLower(text)
	for _, g := range m.groups {
		for _, phrase := range g.phrases {
			if strings.Contains(lower, phrase) {
				return Trigger{Category: g.category, Phrase: phrase}, true
			}
		}
	}
	return Trigger{}, false
}

// Categories returns the trigger categories in match order.
func (m *EmergencyMatcher) Categories() []string {
	out := make([]string, len(m.groups))
	for i, g := range m.groups {
		out[i] = g.category
	}
	return out
}
