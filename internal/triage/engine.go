package triage

// Outcome tags the result of one conversation turn.
type Outcome int

const (
	// OutcomeContinue carries the prompt for the next stage.
	OutcomeContinue Outcome = iota
	// OutcomeComplete means every stage has been answered.
	OutcomeComplete
	// OutcomeEmergency means an emergency trigger short-circuited the turn.
	OutcomeEmergency
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeComplete:
		return "complete"
	case OutcomeEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// AdvanceResult is the engine's answer to one user turn.
type AdvanceResult struct {
	Outcome Outcome
	Message string
	// Stage is the stage the engine is in after the turn.
	Stage Stage
	// Trigger is set only when Outcome is OutcomeEmergency.
	Trigger *Trigger
}

func (r AdvanceResult) ShouldContinue() bool    { return r.Outcome == OutcomeContinue }
func (r AdvanceResult) EmergencyDetected() bool { return r.Outcome == OutcomeEmergency }

// Turn is one entry of the conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Engine is the triage conversation state machine. It owns a single patient
// profile and is not safe for concurrent use; give every session its own
// Engine.
type Engine struct {
	matcher   *EmergencyMatcher
	profile   Profile
	stage     Stage
	emergency *Trigger
	complete  bool
	history   []Turn
}

func NewEngine() *Engine {
	e := &Engine{matcher: NewEmergencyMatcher()}
	e.Reset()
	return e
}

// Greeting returns the opening message without changing state.
func (e *Engine) Greeting() string {
	return StageGreeting.Prompt()
}

// Advance processes one user utterance. Once the engine is complete or has
// detected an emergency it is frozen and repeats its terminal answer.
func (e *Engine) Advance(text string) AdvanceResult {
	if e.emergency != nil {
		return e.emergencyResult()
	}
	if e.complete {
		return AdvanceResult{Outcome: OutcomeComplete, Message: completionMessage, Stage: e.stage}
	}

	e.history = append(e.history, Turn{Role: RoleUser, Content: text})

	if trig, ok := e.matcher.Match(text); ok {
		e.emergency = &trig
		res := e.emergencyResult()
		e.history = append(e.history, Turn{Role: RoleAssistant, Content: res.Message})
		return res
	}

	e.profile.Apply(Extract(text, e.stage.Fields()))
	e.stage = e.stage.Next()

	var res AdvanceResult
	if e.stage.Terminal() {
		e.complete = true
		res = AdvanceResult{Outcome: OutcomeComplete, Message: completionMessage, Stage: e.stage}
	} else {
		res = AdvanceResult{Outcome: OutcomeContinue, Message: e.stage.Prompt(), Stage: e.stage}
	}
	e.history = append(e.history, Turn{Role: RoleAssistant, Content: res.Message})
	return res
}

func (e *Engine) emergencyResult() AdvanceResult {
	trig := *e.emergency
	return AdvanceResult{
		Outcome: OutcomeEmergency,
		Message: emergencyMessage,
		Stage:   e.stage,
		Trigger: &trig,
	}
}

// Profile returns a copy of the current profile.
func (e *Engine) Profile() Profile { return e.profile.Clone() }

func (e *Engine) Stage() Stage { return e.stage }

func (e *Engine) Complete() bool { return e.complete }

func (e *Engine) EmergencyDetected() bool { return e.emergency != nil }

// EmergencyTrigger returns the trigger that froze the engine, if any.
func (e *Engine) EmergencyTrigger() (Trigger, bool) {
	if e.emergency == nil {
		return Trigger{}, false
	}
	return *e.emergency, true
}

// History returns user and assistant turns in order.
func (e *Engine) History() []Turn {
	return append([]Turn(nil), e.history...)
}

// Reset returns the engine to its freshly constructed state.
func (e *Engine) Reset() {
	e.profile = NewProfile()
	e.stage = StageGreeting
	e.emergency = nil
	e.complete = false
	e.history = nil
}
