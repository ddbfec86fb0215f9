package consultation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthmate/internal/agent"
	"healthmate/internal/knowledge"
	"healthmate/internal/report"
	"healthmate/internal/triage"
)

// AssessmentCompleteMarker is returned in place of a question once the
// questionnaire is exhausted.
const AssessmentCompleteMarker = "[Assessment Complete]"

const defaultNotifyTimeout = 30 * time.Second

// KnowledgeBase supplies first-aid guidance for a completed triage.
type KnowledgeBase interface {
	Guidance(ctx context.Context, query string) knowledge.Guidance
	EmergencyProtocols() []knowledge.Document
}

// DoctorNotifier delivers reports to the on-call doctor.
type DoctorNotifier interface {
	SendDoctorReport(ctx context.Context, snap report.Snapshot) error
	NotifyEmergency(ctx context.Context, sessionID string, trig triage.Trigger) error
}

type PDFRenderer interface {
	PDF(snap report.Snapshot) ([]byte, error)
}

// Deps are the collaborators of the service. Only Store is required; nil
// members fall back to local or no-op implementations.
type Deps struct {
	Store     *Store
	Repo      Repository
	Analyst   agent.Analyst
	Knowledge KnowledgeBase
	Notifier  DoctorNotifier
	Renderer  PDFRenderer
	Metrics   *Metrics
	Logger    *zap.Logger
}

// Service hosts triage sessions. Each session owns its engine; the service
// itself holds no per-patient state.
type Service struct {
	store     *Store
	repo      Repository
	analyst   agent.Analyst
	knowledge KnowledgeBase
	notifier  DoctorNotifier
	renderer  PDFRenderer
	metrics   *Metrics
	logger    *zap.Logger
	scorer    triage.RiskScorer

	now           func() time.Time
	notifyTimeout time.Duration
	wg            sync.WaitGroup
}

func NewService(d Deps) *Service {
	s := &Service{
		store:         d.Store,
		repo:          d.Repo,
		analyst:       d.Analyst,
		knowledge:     d.Knowledge,
		notifier:      d.Notifier,
		renderer:      d.Renderer,
		metrics:       d.Metrics,
		logger:        d.Logger,
		scorer:        triage.NewRiskScorer(),
		now:           time.Now,
		notifyTimeout: defaultNotifyTimeout,
	}
	if s.store == nil {
		s.store = NewStore()
	}
	if s.repo == nil {
		s.repo = NopRepository{}
	}
	if s.analyst == nil {
		s.analyst = agent.NewLocalAnalyst()
	}
	if s.renderer == nil {
		s.renderer = report.NewRenderer()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Started is the reply to a new session.
type Started struct {
	SessionID uuid.UUID `json:"session_id"`
	Greeting  string    `json:"greeting"`
}

func (s *Service) StartSession(ctx context.Context) Started {
	sess := newSession(s.now())
	s.store.add(sess)

	if s.metrics != nil {
		s.metrics.SessionsStarted.Inc()
		s.metrics.SessionsActive.Inc()
	}
	s.logger.Info("session started", zap.String("session_id", sess.ID.String()))

	return Started{SessionID: sess.ID, Greeting: sess.engine.Greeting()}
}

// TurnResult is the reply to one user message.
type TurnResult struct {
	SessionID         uuid.UUID `json:"session_id"`
	AssistantMessage  string    `json:"assistant_message"`
	ShouldContinue    bool      `json:"should_continue"`
	IsEmergency       bool      `json:"is_emergency"`
	Stage             string    `json:"stage"`
	EmergencyCategory string    `json:"emergency_category,omitempty"`
}

// Converse feeds one user message to the session's engine. Side effects of
// reaching a terminal state run once, on the turn that reaches it.
func (s *Service) Converse(ctx context.Context, id uuid.UUID, message string) (TurnResult, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return TurnResult{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	frozen := sess.engine.Complete() || sess.engine.EmergencyDetected()
	prev := sess.engine.Stage()
	res := sess.engine.Advance(message)
	sess.touch(s.now())

	if s.metrics != nil {
		s.metrics.Turns.Inc()
	}

	if !frozen {
		switch res.Outcome {
		case triage.OutcomeEmergency:
			s.onEmergency(ctx, sess, *res.Trigger)
		case triage.OutcomeComplete:
			s.onComplete(ctx, sess)
		default:
			s.logger.Debug("stage advanced",
				zap.String("session_id", sess.ID.String()),
				zap.Stringer("from", prev),
				zap.Stringer("to", res.Stage),
			)
		}
	}

	out := TurnResult{
		SessionID:        sess.ID,
		AssistantMessage: res.Message,
		ShouldContinue:   res.ShouldContinue(),
		IsEmergency:      res.EmergencyDetected(),
		Stage:            res.Stage.String(),
	}
	if res.Trigger != nil {
		out.EmergencyCategory = res.Trigger.Category
	}
	return out, nil
}

// onEmergency runs with sess.mu held.
func (s *Service) onEmergency(ctx context.Context, sess *Session, trig triage.Trigger) {
	s.logger.Warn("emergency detected",
		zap.String("session_id", sess.ID.String()),
		zap.String("category", trig.Category),
		zap.String("phrase", trig.Phrase),
	)
	if s.metrics != nil {
		s.metrics.Emergencies.WithLabelValues(trig.Category).Inc()
	}
	s.archive(ctx, sess)

	snap := s.snapshot(sess)
	s.dispatch("emergency", func(ctx context.Context) error {
		if err := s.notifier.NotifyEmergency(ctx, snap.SessionID, trig); err != nil {
			return err
		}
		return s.notifier.SendDoctorReport(ctx, snap)
	})
}

// onComplete runs with sess.mu held.
func (s *Service) onComplete(ctx context.Context, sess *Session) {
	risk := s.scorer.Score(sess.engine.Profile())
	sess.risk = &risk

	s.logger.Info("triage completed",
		zap.String("session_id", sess.ID.String()),
		zap.Stringer("urgency", risk.UrgencyLevel),
		zap.Float64("overall_score", risk.OverallScore),
	)
	if s.metrics != nil {
		s.metrics.TriagesCompleted.WithLabelValues(risk.UrgencyLevel.String()).Inc()
	}
	s.archive(ctx, sess)

	snap := s.snapshot(sess)
	s.dispatch("report", func(ctx context.Context) error {
		return s.notifier.SendDoctorReport(ctx, snap)
	})
}

// dispatch delivers a doctor notification in the background. Delivery is
// best effort: failures are logged and never reach the patient.
func (s *Service) dispatch(kind string, send func(ctx context.Context) error) {
	if s.notifier == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			s.logger.Warn("doctor notification failed", zap.String("kind", kind), zap.Error(err))
		}
	}()
}

// Wait blocks until background notifications have finished.
func (s *Service) Wait() { s.wg.Wait() }

// archive runs with sess.mu held. Archive failures are logged only.
func (s *Service) archive(ctx context.Context, sess *Session) {
	rec := Record{
		SessionID:  sess.ID,
		Stage:      sess.engine.Stage(),
		Profile:    sess.engine.Profile().Fields(),
		Risk:       sess.risk,
		Assessment: sess.assessment,
		History:    sess.engine.History(),
		CreatedAt:  sess.CreatedAt,
		UpdatedAt:  sess.updatedAt,
	}
	if trig, ok := sess.engine.EmergencyTrigger(); ok {
		rec.Emergency = &trig
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		s.logger.Warn("failed to archive triage record", zap.String("session_id", sess.ID.String()), zap.Error(err))
	}
}

// snapshot runs with sess.mu held.
func (s *Service) snapshot(sess *Session) report.Snapshot {
	snap := report.Snapshot{
		SessionID:   sess.ID.String(),
		GeneratedAt: s.now(),
		Profile:     sess.engine.Profile(),
		Stage:       sess.engine.Stage(),
	}
	if trig, ok := sess.engine.EmergencyTrigger(); ok {
		snap.Emergency = &trig
	}
	if sess.risk != nil {
		r := *sess.risk
		snap.Risk = &r
	}
	if sess.assessment != nil {
		a := *sess.assessment
		snap.Assessment = &a
	}
	if sess.analysis != nil {
		snap.Analysis = sess.analysis.Report
	}
	return snap
}

// TriageResult is the scored outcome of a completed triage.
type TriageResult struct {
	SessionID          uuid.UUID          `json:"session_id"`
	Profile            map[string]any     `json:"patient_profile"`
	Risk               triage.RiskScore   `json:"risk_assessment"`
	UrgencyLabel       string             `json:"urgency_label"`
	UrgencyGlyph       string             `json:"urgency_glyph"`
	SeriousCombination bool               `json:"serious_combination"`
	Guidance           knowledge.Guidance `json:"knowledge"`
}

func (s *Service) TriageResult(ctx context.Context, id uuid.UUID) (TriageResult, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return TriageResult{}, err
	}

	sess.mu.Lock()
	if err := completed(sess); err != nil {
		sess.mu.Unlock()
		return TriageResult{}, err
	}
	profile := sess.engine.Profile()
	risk := *sess.risk
	sess.mu.Unlock()

	out := TriageResult{
		SessionID:          id,
		Profile:            profile.Fields(),
		Risk:               risk,
		UrgencyLabel:       risk.UrgencyLevel.Label(),
		UrgencyGlyph:       risk.UrgencyLevel.Glyph(),
		SeriousCombination: triage.SeriousCombination(profile.Symptom(), profile.AdditionalSymptoms),
	}
	if s.knowledge != nil {
		out.Guidance = s.knowledge.Guidance(ctx, profile.Symptom())
	}
	return out, nil
}

// completed runs with sess.mu held.
func completed(sess *Session) error {
	switch {
	case sess.engine.EmergencyDetected():
		return ErrSessionEmergency
	case !sess.engine.Complete() || sess.risk == nil:
		return ErrTriageIncomplete
	}
	return nil
}

// EmergencyProtocols lists the emergency first-aid documents.
func (s *Service) EmergencyProtocols() []knowledge.Document {
	if s.knowledge == nil {
		return []knowledge.Document{}
	}
	return s.knowledge.EmergencyProtocols()
}

// DiagnosticQuestion is the next step of the questionnaire.
type DiagnosticQuestion struct {
	SessionID uuid.UUID `json:"session_id"`
	Question  string    `json:"question"`
	Number    int       `json:"question_number"`
	Total     int       `json:"total_questions"`
	Symptom   string    `json:"symptom"`
	Complete  bool      `json:"assessment_complete"`
}

// NextDiagnosticQuestion returns the question after the answers recorded so
// far. Once the list is exhausted it computes and stores the assessment.
func (s *Service) NextDiagnosticQuestion(ctx context.Context, id uuid.UUID) (DiagnosticQuestion, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return DiagnosticQuestion{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	symptom, err := diagnosticSymptom(sess)
	if err != nil {
		return DiagnosticQuestion{}, err
	}

	out := DiagnosticQuestion{
		SessionID: id,
		Symptom:   symptom,
		Total:     len(triage.QuestionsFor(symptom)),
	}

	if q, ok := triage.NextQuestion(symptom, sess.answers); ok {
		out.Question = q
		out.Number = len(sess.answers) + 1
		return out, nil
	}

	if sess.assessment == nil || sess.assessment.AnswersCount != len(sess.answers) {
		a := triage.Assess(symptom, sess.answers)
		sess.assessment = &a
		sess.touch(s.now())

		s.logger.Info("diagnostic assessment computed",
			zap.String("session_id", id.String()),
			zap.Stringer("urgency", a.UrgencyLevel),
			zap.Int("conditions", len(a.PossibleConditions)),
			zap.Strings("red_flags", a.RedFlagsPresent),
		)
		if s.metrics != nil {
			s.metrics.Assessments.WithLabelValues(a.UrgencyLevel.String()).Inc()
		}
		s.archive(ctx, sess)
	}

	out.Question = AssessmentCompleteMarker
	out.Number = len(sess.answers)
	out.Complete = true
	return out, nil
}

// SubmitDiagnosticAnswer records an answer and returns the number recorded.
func (s *Service) SubmitDiagnosticAnswer(_ context.Context, id uuid.UUID, answer string) (int, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return 0, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if _, err := diagnosticSymptom(sess); err != nil {
		return 0, err
	}
	sess.answers = append(sess.answers, answer)
	sess.touch(s.now())
	return len(sess.answers), nil
}

// diagnosticSymptom runs with sess.mu held.
func diagnosticSymptom(sess *Session) (string, error) {
	if sess.engine.EmergencyDetected() {
		return "", ErrSessionEmergency
	}
	symptom := sess.engine.Profile().Symptom()
	if symptom == "" {
		return "", ErrNoSymptom
	}
	return symptom, nil
}

// AssessmentResult pairs the stored assessment with its text rendering.
type AssessmentResult struct {
	SessionID  uuid.UUID                   `json:"session_id"`
	Assessment triage.DiagnosticAssessment `json:"assessment"`
	Summary    string                      `json:"summary"`
}

func (s *Service) DiagnosticAssessment(_ context.Context, id uuid.UUID) (AssessmentResult, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return AssessmentResult{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.assessment == nil {
		return AssessmentResult{}, ErrAssessmentUnavailable
	}
	return AssessmentResult{
		SessionID:  id,
		Assessment: *sess.assessment,
		Summary:    sess.assessment.Summary(),
	}, nil
}

// Analyze runs the analyst over a completed triage and stores the result.
func (s *Service) Analyze(ctx context.Context, id uuid.UUID) (agent.Result, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return agent.Result{}, err
	}

	sess.mu.Lock()
	if err := completed(sess); err != nil {
		sess.mu.Unlock()
		return agent.Result{}, err
	}
	req := agent.Request{
		Profile:        sess.engine.Profile().Fields(),
		RiskAssessment: sess.risk.Reasoning,
		Urgency:        sess.risk.UrgencyLevel.String(),
	}
	sess.mu.Unlock()

	res := s.analyst.Analyze(ctx, req)
	if !res.Success {
		s.logger.Warn("analysis degraded to local text", zap.String("session_id", id.String()), zap.String("model", res.Model))
		if s.metrics != nil {
			s.metrics.AnalystFallbacks.Inc()
		}
	}

	sess.mu.Lock()
	sess.analysis = &res
	sess.touch(s.now())
	sess.mu.Unlock()

	return res, nil
}

func (s *Service) AnalysisReport(_ context.Context, id uuid.UUID) (agent.Result, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return agent.Result{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.analysis == nil {
		return agent.Result{}, ErrAnalysisUnavailable
	}
	return *sess.analysis, nil
}

// ReportPDF renders the session's current state as a PDF.
func (s *Service) ReportPDF(_ context.Context, id uuid.UUID) ([]byte, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	snap := s.snapshot(sess)
	sess.mu.Unlock()

	return s.renderer.PDF(snap)
}

func (s *Service) DeleteSession(_ context.Context, id uuid.UUID) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.SessionsActive.Dec()
	}
	s.logger.Info("session deleted", zap.String("session_id", id.String()))
	return nil
}
