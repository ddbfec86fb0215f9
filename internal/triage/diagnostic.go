package triage

import (
	"fmt"
	"strings"
)

var (
	headacheQuestions = []string{
		"Where exactly is the headache? (forehead, temples, back of head, all over)",
		"Describe the pain: throbbing/pulsating, dull/aching, sharp/stabbing, pressure?",
		"Any vision changes, nausea, vomiting, or sensitivity to light/sound?",
		"Did it start suddenly (like lightning bolt) or gradually (worsening over hours)?",
		"Any recent head trauma, fever, or neck stiffness?",
		"Any weakness, numbness, difficulty speaking, or loss of balance?",
		"Is this similar to previous headaches you've had?",
		"Any stress, sleep changes, or medication changes recently?",
	}

	chestPainQuestions = []string{
		"Where exactly? (left side, center, specific point, radiating)",
		"Describe pain: sharp, crushing, pressure, burning, tightness?",
		"Any shortness of breath, sweating, nausea, or dizziness?",
		"Any radiation to arm (which?), jaw, neck, or back?",
		"Did pain start during exercise/exertion or at rest?",
		"Any recent illness, fever, or cough?",
		"Any history of heart problems or risk factors?",
		"Is this new chest pain or similar to previous episodes?",
	}

	abdominalPainQuestions = []string{
		"Which region? (upper left, upper right, lower left, lower right, center, diffuse)",
		"Pain type: sharp/stabbing, dull/cramping, burning, pressure?",
		"Constant or comes and goes (colicky)?",
		"Any vomiting, diarrhea, constipation, or blood?",
		"Any fever, recent illness, or weight loss?",
		"Related to eating, bowel movements, or menstrual cycle?",
		"Any recent abdominal injury or surgery?",
		"Severity worsening or improving?",
	}

	feverQuestions = []string{
		"What's the highest temperature recorded? (if measured)",
		"How long have you had the fever?",
		"Any chills, sweating, or body aches?",
		"Any cough, sore throat, nasal congestion, or difficulty breathing?",
		"Any rash, neck stiffness, or severe headache?",
		"Any vomiting, diarrhea, or abdominal pain?",
		"Any recent exposure to sick people or travel?",
		"Any chronic conditions or immunosuppression?",
	}

	breathingQuestions = []string{
		"Sudden onset or gradual over hours/days?",
		"Worsening with exertion or activity?",
		"Any chest pain, wheezing, or cough?",
		"Any recent illness, travel, or immobilization?",
		"Any swelling in legs or history of blood clots?",
		"Any recent surgery or injury?",
		"Asthma or COPD history?",
		"Any anxiety or panic attacks previously?",
	}
)

type questionTree struct {
	cues      []string
	questions []string
}

// Checked in order; the first tree with a matching cue wins.
var questionTrees = []questionTree{
	{[]string{"headache", "head pain"}, headacheQuestions},
	{[]string{"chest", "heart"}, chestPainQuestions},
	{[]string{"abdominal", "belly", "stomach"}, abdominalPainQuestions},
	{[]string{"fever", "temperature"}, feverQuestions},
	{[]string{"breath", "shortness"}, breathingQuestions},
}

// QuestionsFor returns the ordered diagnostic questions for a symptom.
func QuestionsFor(symptom string) []string {
	lower := strings.ToLower(symptom)
	for _, t := range questionTrees {
		if containsAny(lower, t.cues...) {
			return append([]string(nil), t.questions...)
		}
	}
	return []string{
		fmt.Sprintf("Describe your %s in more detail", symptom),
		"When did this start?",
		"Is it getting worse or better?",
		"What makes it better or worse?",
		"Any other symptoms?",
	}
}

// NextQuestion returns the question following the answers given so far, or
// false once the list is exhausted.
func NextQuestion(symptom string, answers []string) (string, bool) {
	questions := QuestionsFor(symptom)
	if len(answers) >= len(questions) {
		return "", false
	}
	return questions[len(answers)], true
}
