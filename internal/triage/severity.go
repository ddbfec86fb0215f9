package triage

import "strings"

type symptomCombination struct {
	primary   string
	companion []string
}

// Pairings that warrant attention even when the weighted score stays low.
var seriousCombinations = []symptomCombination{
	{"chest pain", []string{"difficulty breathing", "dizziness"}},
	{"difficulty breathing", []string{"chest pain", "dizziness"}},
	{"severe headache", []string{"fever", "stiff neck"}},
	{"confusion", []string{"high fever", "difficulty breathing"}},
}

// SeriousCombination reports whether the symptoms contain one of the known
// dangerous pairings: the lead symptom together with every companion.
func SeriousCombination(primary string, additional []string) bool {
	all := append([]string{primary}, additional...)
	text := strings.ToLower(strings.Join(all, " "))

	for _, combo := range seriousCombinations {
		if !strings.Contains(text, combo.primary) {
			continue
		}
		matched := true
		for _, c := range combo.companion {
			if !strings.Contains(text, c) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
