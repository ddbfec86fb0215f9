package triage

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// A run of one to three digits not touching other digits.
	ageRE     = regexp.MustCompile(`(?:^|\D)(\d{1,3})(?:\D|$)`)
	integerRE = regexp.MustCompile(`\d+`)
)

// Update is a partial profile update produced from one utterance. Nil members
// leave the profile untouched.
type Update struct {
	Age                *int
	Gender             *Gender
	PrimarySymptom     *string
	Duration           *string
	SeverityScore      *float64
	MedicalHistory     MedicalHistory
	CurrentMedications []string
	Allergies          []string
	AdditionalSymptoms []string
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return u.Age == nil && u.Gender == nil && u.PrimarySymptom == nil && u.Duration == nil &&
		u.SeverityScore == nil && u.MedicalHistory == nil && u.CurrentMedications == nil &&
		u.Allergies == nil && u.AdditionalSymptoms == nil
}

// Extract converts one free-text answer into updates for the given fields.
// It never fails: text that cannot be parsed leaves the field unset.
func Extract(text string, fields []Field) Update {
	var u Update
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, f := range fields {
		switch f {
		case FieldAge:
			if age, ok := ParseAge(text); ok {
				u.Age = &age
			}
		case FieldGender:
			g := ParseGender(lower)
			u.Gender = &g
		case FieldPrimarySymptom:
			s := text
			u.PrimarySymptom = &s
		case FieldDuration:
			s := text
			u.Duration = &s
		case FieldSeverityScore:
			if n, ok := FirstInteger(text); ok {
				v := clampSeverity(float64(n))
				u.SeverityScore = &v
			}
		case FieldMedicalHistory:
			u.MedicalHistory = ParseMedicalHistory(lower)
		case FieldCurrentMedications:
			u.CurrentMedications = parseList(text, lower)
		case FieldAllergies:
			u.Allergies = parseList(text, lower)
		case FieldAdditionalSymptoms:
			u.AdditionalSymptoms = parseList(text, lower)
		}
	}
	return u
}

// ParseAge returns the first standalone run of 1-3 digits.
func ParseAge(text string) (int, bool) {
	m := ageRE.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FirstInteger returns the first run of digits in text. Runs too long for an
// int are reported as not found.
func FirstInteger(text string) (int, bool) {
	s := integerRE.FindString(text)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseGender maps lowercase text to a gender. Female cues are checked first
// because "female" and "woman" contain "male" and "man".
func ParseGender(lower string) Gender {
	tokens := strings.Fields(lower)
	switch {
	case containsAny(lower, "female", "woman", "girl") || hasToken(tokens, "f"):
		return GenderFemale
	case containsAny(lower, "male", "man", "boy") || hasToken(tokens, "m"):
		return GenderMale
	default:
		return GenderUnspecified
	}
}

// ParseMedicalHistory evaluates every condition flag from substring cues.
func ParseMedicalHistory(lower string) MedicalHistory {
	return MedicalHistory{
		Diabetes:      strings.Contains(lower, "diabetes"),
		Hypertension:  containsAny(lower, "high blood pressure", "hypertension", "bp"),
		Asthma:        strings.Contains(lower, "asthma"),
		HeartDisease:  containsAny(lower, "heart", "cardiac"),
		StrokeHistory: containsAny(lower, "stroke", "tia"),
		KidneyDisease: strings.Contains(lower, "kidney"),
	}
}

// parseList splits a comma separated answer. Answers containing "no" or
// "none" yield nil so the profile keeps its default.
func parseList(text, lower string) []string {
	if strings.Contains(lower, "no") || strings.Contains(lower, "none") {
		return nil
	}
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// Apply merges u into the profile. Medical history flags are merged key by
// key; list fields are replaced.
func (p *Profile) Apply(u Update) {
	if u.Age != nil {
		v := *u.Age
		p.Age = &v
	}
	if u.Gender != nil {
		v := *u.Gender
		p.Gender = &v
	}
	if u.PrimarySymptom != nil {
		v := *u.PrimarySymptom
		p.PrimarySymptom = &v
	}
	if u.Duration != nil {
		v := *u.Duration
		p.Duration = &v
	}
	if u.SeverityScore != nil {
		p.SeverityScore = clampSeverity(*u.SeverityScore)
	}
	if u.MedicalHistory != nil {
		if p.MedicalHistory == nil {
			p.MedicalHistory = NewMedicalHistory()
		}
		for _, c := range Conditions {
			if v, ok := u.MedicalHistory[c]; ok {
				p.MedicalHistory[c] = v
			}
		}
	}
	if u.CurrentMedications != nil {
		p.CurrentMedications = append([]string{}, u.CurrentMedications...)
	}
	if u.Allergies != nil {
		p.Allergies = append([]string{}, u.Allergies...)
	}
	if u.AdditionalSymptoms != nil {
		p.AdditionalSymptoms = append([]string{}, u.AdditionalSymptoms...)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}
