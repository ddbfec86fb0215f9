package triage

import (
	"fmt"
	"sort"
	"strings"
)

// Disclaimer accompanies every diagnostic assessment.
const Disclaimer = "This is an assessment based on your responses, NOT a diagnosis. " +
	"Always consult healthcare professionals for proper diagnosis."

// minConfidencePercent is exclusive: a pattern needs more than 40% of its
// keywords to be reported.
const minConfidencePercent = 40

type conditionPattern struct {
	name        string
	keywords    []string
	urgency     UrgencyLevel
	description string
	actions     string
	redFlags    []string
	seekHelp    string
}

var conditionPatterns = []conditionPattern{
	{
		name:        "migraine",
		keywords:    []string{"throbbing", "one-sided", "nausea", "sensitivity", "visual"},
		urgency:     Yellow,
		description: "Likely migraine headache",
		actions:     "See neurologist if frequent. OTC pain relief okay for now.",
		redFlags:    []string{"sudden worst ever", "fever + stiff neck", "focal neurological signs"},
		seekHelp:    "If worst headache of your life, or with fever/neck stiffness, go to ER",
	},
	{
		name:        "tension_headache",
		keywords:    []string{"pressure", "both sides", "stress", "neck tension", "dull"},
		urgency:     Green,
		description: "Likely tension-type headache",
		actions:     "Rest, relax neck muscles, hydration, OTC pain relief",
		redFlags:    []string{"worsening pattern", "new onset", "with other neurological symptoms"},
		seekHelp:    "If persists >2 weeks or new pattern, see doctor",
	},
	{
		name:        "heart_attack",
		keywords:    []string{"crushing", "center", "radiation", "shortness", "sweating"},
		urgency:     Red,
		description: "POSSIBLE ACUTE CORONARY SYNDROME",
		actions:     "CALL 911 IMMEDIATELY - DO NOT DRIVE",
		redFlags:    []string{"All of the above symptoms"},
		seekHelp:    "EMERGENCY - Call 911 immediately",
	},
	{
		name:        "anxiety",
		keywords:    []string{"sharp", "localized", "stress", "panic", "breathing"},
		urgency:     Yellow,
		description: "Possibly anxiety-related",
		actions:     "Breathing exercises, stress management, relaxation",
		redFlags:    []string{"with actual cardiac symptoms", "persistent despite treatment"},
		seekHelp:    "See doctor to rule out cardiac causes, then mental health support",
	},
	{
		name:        "gastroenteritis",
		keywords:    []string{"abdominal", "vomiting", "diarrhea", "cramps", "nausea"},
		urgency:     Yellow,
		description: "Likely viral or bacterial gastroenteritis",
		actions:     "Rest, fluids, bland diet, avoid dairy/fatty foods",
		redFlags:    []string{"severe pain", "blood in stool", "signs of dehydration", "fever >102"},
		seekHelp:    "If severe dehydration, persistent >3 days, or blood in stool",
	},
	{
		name:        "respiratory_infection",
		keywords:    []string{"cough", "sore throat", "fever", "congestion", "shortness"},
		urgency:     Yellow,
		description: "Likely respiratory infection (URI/bronchitis)",
		actions:     "Rest, hydration, cough drops, pain relief for aches",
		redFlags:    []string{"high fever", "difficulty breathing", "altered consciousness"},
		seekHelp:    "If breathing difficulty, high fever, or symptoms >10 days",
	},
	{
		name:        "sepsis",
		keywords:    []string{"high fever", "confusion", "rapid heart rate", "difficulty breathing", "shock"},
		urgency:     Red,
		description: "POSSIBLE SEPSIS - LIFE-THREATENING",
		actions:     "CALL 911 IMMEDIATELY",
		redFlags:    []string{"Any 2+ of the above"},
		seekHelp:    "EMERGENCY - Call 911",
	},
}

var nextStepsByUrgency = map[UrgencyLevel][]string{
	Red: {
		"🚨 EMERGENCY - CALL 911 IMMEDIATELY",
		"Do not drive if symptoms present",
		"Have insurance information ready",
	},
	Yellow: {
		"🟡 Schedule doctor appointment within 24 hours",
		"Visit urgent care clinic if cannot see regular doctor",
		"Monitor symptoms for any worsening",
		"Stay home if contagious symptoms present",
	},
	Green: {
		"🟢 Home care measures appropriate",
		"Rest, hydration, basic comfort measures",
		"Monitor symptoms - see doctor if worsening or persistent",
		"Schedule regular appointment if symptoms continue >48 hours",
	},
}

// PossibleCondition is one ranked hypothesis of an assessment.
type PossibleCondition struct {
	Condition          string       `json:"condition"`
	Confidence         int          `json:"confidence"`
	Description        string       `json:"description"`
	RecommendedActions string       `json:"recommended_actions"`
	WhenToSeekHelp     string       `json:"when_to_seek_help"`
	Urgency            UrgencyLevel `json:"urgency"`
}

// ConfidenceLabel renders the confidence as a percentage string.
func (c PossibleCondition) ConfidenceLabel() string {
	return fmt.Sprintf("%d%%", c.Confidence)
}

// DiagnosticAssessment is the confidence-ranked result of pattern matching a
// set of diagnostic answers. It is guidance, not a diagnosis.
type DiagnosticAssessment struct {
	Symptom            string              `json:"symptom"`
	AnswersCount       int                 `json:"answers_count"`
	PossibleConditions []PossibleCondition `json:"possible_conditions"`
	UrgencyLevel       UrgencyLevel        `json:"urgency_level"`
	RedFlagsPresent    []string            `json:"red_flags_present"`
	NextSteps          []string            `json:"next_steps"`
	Disclaimer         string              `json:"disclaimer"`
}

// Assess scores every catalog pattern against the answers. The result depends
// only on its inputs.
func Assess(symptom string, answers []string) DiagnosticAssessment {
	text := strings.ToLower(strings.Join(answers, " "))

	a := DiagnosticAssessment{
		Symptom:            symptom,
		AnswersCount:       len(answers),
		PossibleConditions: []PossibleCondition{},
		UrgencyLevel:       Green,
		RedFlagsPresent:    []string{},
		Disclaimer:         Disclaimer,
	}

	for _, p := range conditionPatterns {
		confidence := p.confidence(text)
		if confidence <= minConfidencePercent {
			continue
		}
		a.PossibleConditions = append(a.PossibleConditions, PossibleCondition{
			Condition:          p.name,
			Confidence:         confidence,
			Description:        p.description,
			RecommendedActions: p.actions,
			WhenToSeekHelp:     p.seekHelp,
			Urgency:            p.urgency,
		})
		a.UrgencyLevel = a.UrgencyLevel.Max(p.urgency)
	}

	// Stable so equal confidences keep catalog order.
	sort.SliceStable(a.PossibleConditions, func(i, j int) bool {
		return a.PossibleConditions[i].Confidence > a.PossibleConditions[j].Confidence
	})

	// Red flags raise urgency regardless of the confidence cut-off.
	for _, p := range conditionPatterns {
		for _, flag := range p.redFlags {
			if strings.Contains(text, strings.ToLower(flag)) {
				a.RedFlagsPresent = append(a.RedFlagsPresent, flag)
				a.UrgencyLevel = a.UrgencyLevel.Max(p.urgency)
			}
		}
	}

	a.NextSteps = append([]string(nil), nextStepsByUrgency[a.UrgencyLevel]...)
	return a
}

// confidence is the integer percentage of keywords present in text.
func (p conditionPattern) confidence(text string) int {
	if len(p.keywords) == 0 {
		return 0
	}
	matches := 0
	for _, kw := range p.keywords {
		if strings.Contains(text, kw) {
			matches++
		}
	}
	return matches * 100 / len(p.keywords)
}

// Summary renders the assessment as a plain-text report.
func (a DiagnosticAssessment) Summary() string {
	rule := strings.Repeat("=", 60)
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s\nTRIAGE ASSESSMENT SUMMARY\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "Symptom: %s\n", a.Symptom)
	fmt.Fprintf(&b, "Urgency Level: %s\n\n", a.UrgencyLevel)

	if len(a.PossibleConditions) > 0 {
		b.WriteString("Possible Conditions:\n")
		for i, c := range a.PossibleConditions {
			fmt.Fprintf(&b, "  %d. %s (%s confidence)\n", i+1, Condition(c.Condition).DisplayName(), c.ConfidenceLabel())
			fmt.Fprintf(&b, "     %s\n\n", c.Description)
		}
	}

	if len(a.RedFlagsPresent) > 0 {
		b.WriteString("🚨 Red Flags Identified:\n")
		for _, flag := range a.RedFlagsPresent {
			fmt.Fprintf(&b, "  - %s\n", flag)
		}
		b.WriteString("\n")
	}

	b.WriteString("Recommended Actions:\n")
	for _, step := range a.NextSteps {
		fmt.Fprintf(&b, "  %s\n", step)
	}

	fmt.Fprintf(&b, "\n%s\n%s\n", a.Disclaimer, rule)
	return b.String()
}
