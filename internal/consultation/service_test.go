package consultation

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"healthmate/internal/agent"
	"healthmate/internal/knowledge"
	"healthmate/internal/report"
	"healthmate/internal/triage"
)

var completeScript = []string{
	"hi",
	"I'm 45, female",
	"bad headache",
	"3 days",
	"7",
	"I have diabetes and high blood pressure",
	"metformin, aspirin",
	"none",
	"nausea, dizziness",
}

type fakeRepo struct {
	mu      sync.Mutex
	records []Record
	err     error
}

func (r *fakeRepo) Save(_ context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeRepo) saved() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

type fakeNotifier struct {
	mu          sync.Mutex
	reports     []report.Snapshot
	emergencies []triage.Trigger
	err         error
}

func (n *fakeNotifier) SendDoctorReport(_ context.Context, snap report.Snapshot) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.reports = append(n.reports, snap)
	return nil
}

func (n *fakeNotifier) NotifyEmergency(_ context.Context, _ string, trig triage.Trigger) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.emergencies = append(n.emergencies, trig)
	return nil
}

type degradedAnalyst struct{}

func (degradedAnalyst) Analyze(context.Context, agent.Request) agent.Result {
	return agent.Result{Analysis: "a", Report: "r", Model: "local + local", Success: false}
}

type fixture struct {
	svc      *Service
	repo     *fakeRepo
	notifier *fakeNotifier
	reg      *prometheus.Registry
	logs     *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	kb, err := knowledge.NewService(knowledge.Catalog(), nil, 3, nil)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()
	f := &fixture{
		repo:     &fakeRepo{},
		notifier: &fakeNotifier{},
		reg:      reg,
		logs:     logs,
	}
	f.svc = NewService(Deps{
		Store:     NewStore(),
		Repo:      f.repo,
		Analyst:   agent.NewLocalAnalyst(),
		Knowledge: kb,
		Notifier:  f.notifier,
		Renderer:  report.NewRenderer(filepath.Join(t.TempDir(), "missing.ttf")),
		Metrics:   NewMetrics(reg),
		Logger:    zap.New(core),
	})
	return f
}

func (f *fixture) converse(t *testing.T, id uuid.UUID, messages ...string) TurnResult {
	t.Helper()
	var last TurnResult
	for _, msg := range messages {
		res, err := f.svc.Converse(context.Background(), id, msg)
		require.NoError(t, err)
		last = res
	}
	return last
}

// metricValue reads a counter or gauge from the registry. Unobserved label
// combinations read as zero.
func (f *fixture) metricValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := f.reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			if len(labels) > 0 && !assert.ObjectsAreEqual(labels, got) {
				continue
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func TestService_StartSession(t *testing.T) {
	f := newFixture(t)

	started := f.svc.StartSession(context.Background())

	assert.NotEqual(t, uuid.Nil, started.SessionID)
	assert.Equal(t, triage.StageGreeting.Prompt(), started.Greeting)
	assert.Equal(t, float64(1), f.metricValue(t, "healthmate_sessions_started_total", nil))
	assert.Equal(t, float64(1), f.metricValue(t, "healthmate_sessions_active", nil))
}

func TestService_ConverseToCompletion(t *testing.T) {
	f := newFixture(t)
	id := f.svc.StartSession(context.Background()).SessionID

	first := f.converse(t, id, "hi")
	assert.True(t, first.ShouldContinue)
	assert.Equal(t, "basic_info", first.Stage)
	assert.Equal(t, triage.StageBasicInfo.Prompt(), first.AssistantMessage)

	last := f.converse(t, id, completeScript[1:]...)
	assert.False(t, last.ShouldContinue)
	assert.False(t, last.IsEmergency)
	assert.Equal(t, "complete", last.Stage)

	// A frozen session repeats its answer without side effects.
	again := f.converse(t, id, "hello?")
	assert.Equal(t, last.AssistantMessage, again.AssistantMessage)

	f.svc.Wait()

	records := f.repo.saved()
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].SessionID)
	assert.Equal(t, triage.StageComplete, records[0].Stage)
	require.NotNil(t, records[0].Risk)
	assert.Equal(t, triage.Green, records[0].Risk.UrgencyLevel)
	assert.Len(t, records[0].History, 18)

	require.Len(t, f.notifier.reports, 1)
	assert.Equal(t, id.String(), f.notifier.reports[0].SessionID)
	assert.Empty(t, f.notifier.emergencies)

	assert.Equal(t, float64(10), f.metricValue(t, "healthmate_turns_total", nil))
	assert.Equal(t, float64(1), f.metricValue(t, "healthmate_triages_completed_total", map[string]string{"urgency": "GREEN"}))
	assert.Equal(t, 1, f.logs.FilterMessage("triage completed").Len())
	assert.Equal(t, 8, f.logs.FilterMessage("stage advanced").Len())
}

func TestService_Emergency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.svc.StartSession(ctx).SessionID

	res := f.converse(t, id, "hello", "I have chest pain")

	assert.True(t, res.IsEmergency)
	assert.False(t, res.ShouldContinue)
	assert.Equal(t, "chest_pain", res.EmergencyCategory)
	assert.Equal(t, "basic_info", res.Stage)

	f.svc.Wait()

	require.Len(t, f.notifier.emergencies, 1)
	assert.Equal(t, triage.Trigger{Category: "chest_pain", Phrase: "chest pain"}, f.notifier.emergencies[0])
	require.Len(t, f.notifier.reports, 1)
	require.NotNil(t, f.notifier.reports[0].Emergency)

	records := f.repo.saved()
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Emergency)
	assert.Nil(t, records[0].Risk)

	entries := f.logs.FilterMessage("emergency detected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "chest_pain", entries[0].ContextMap()["category"])
	assert.Equal(t, float64(1), f.metricValue(t, "healthmate_emergencies_total", map[string]string{"category": "chest_pain"}))

	_, err := f.svc.TriageResult(ctx, id)
	assert.ErrorIs(t, err, ErrSessionEmergency)
	_, err = f.svc.NextDiagnosticQuestion(ctx, id)
	assert.ErrorIs(t, err, ErrSessionEmergency)
	_, err = f.svc.Analyze(ctx, id)
	assert.ErrorIs(t, err, ErrSessionEmergency)
}

func TestService_UnknownSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.New()

	_, err := f.svc.Converse(ctx, id, "hi")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.svc.TriageResult(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.svc.SubmitDiagnosticAnswer(ctx, id, "x")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.svc.ReportPDF(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, f.svc.DeleteSession(ctx, id), ErrSessionNotFound)
}

func TestService_TriageResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.svc.StartSession(ctx).SessionID

	f.converse(t, id, completeScript[:4]...)
	_, err := f.svc.TriageResult(ctx, id)
	require.ErrorIs(t, err, ErrTriageIncomplete)

	f.converse(t, id, completeScript[4:]...)
	res, err := f.svc.TriageResult(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, res.SessionID)
	assert.Equal(t, 45, res.Profile["age"])
	assert.Equal(t, "bad headache", res.Profile["primary_symptom"])
	assert.InDelta(t, 0.451, res.Risk.OverallScore, 1e-9)
	assert.Equal(t, triage.Green, res.Risk.UrgencyLevel)
	assert.Equal(t, "mild", res.UrgencyLabel)
	assert.Equal(t, "🟢", res.UrgencyGlyph)
	assert.False(t, res.SeriousCombination)
	assert.Equal(t, "bad headache", res.Guidance.Query)
	assert.NotEmpty(t, res.Guidance.Text)
	f.svc.Wait()
}

func TestService_DiagnosticFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.svc.StartSession(ctx).SessionID

	_, err := f.svc.NextDiagnosticQuestion(ctx, id)
	require.ErrorIs(t, err, ErrNoSymptom)
	_, err = f.svc.SubmitDiagnosticAnswer(ctx, id, "x")
	require.ErrorIs(t, err, ErrNoSymptom)
	_, err = f.svc.DiagnosticAssessment(ctx, id)
	require.ErrorIs(t, err, ErrAssessmentUnavailable)

	f.converse(t, id, "hi", "30 male", "headache")

	answers := []string{
		"temples, one-sided",
		"throbbing",
		"nausea and sensitivity to light",
		"gradually",
		"no",
		"no",
		"yes, similar",
		"some stress at work",
	}
	questions := triage.QuestionsFor("headache")
	require.Len(t, questions, len(answers))

	for i, answer := range answers {
		q, err := f.svc.NextDiagnosticQuestion(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, questions[i], q.Question)
		assert.Equal(t, i+1, q.Number)
		assert.Equal(t, len(questions), q.Total)
		assert.Equal(t, "headache", q.Symptom)
		assert.False(t, q.Complete)

		n, err := f.svc.SubmitDiagnosticAnswer(ctx, id, answer)
		require.NoError(t, err)
		assert.Equal(t, i+1, n)
	}

	done, err := f.svc.NextDiagnosticQuestion(ctx, id)
	require.NoError(t, err)
	assert.True(t, done.Complete)
	assert.Equal(t, AssessmentCompleteMarker, done.Question)
	assert.Equal(t, len(answers), done.Number)

	// Asking again does not recompute.
	_, err = f.svc.NextDiagnosticQuestion(ctx, id)
	require.NoError(t, err)

	res, err := f.svc.DiagnosticAssessment(ctx, id)
	require.NoError(t, err)
	require.NotEmpty(t, res.Assessment.PossibleConditions)
	assert.Equal(t, "migraine", res.Assessment.PossibleConditions[0].Condition)
	assert.Equal(t, 80, res.Assessment.PossibleConditions[0].Confidence)
	assert.Equal(t, triage.Yellow, res.Assessment.UrgencyLevel)
	assert.Contains(t, res.Summary, "Migraine (80% confidence)")

	assert.Equal(t, float64(1), f.metricValue(t, "healthmate_assessments_total", map[string]string{"urgency": "YELLOW"}))
	records := f.repo.saved()
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Assessment)
}

func TestService_Analyze(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.svc.StartSession(ctx).SessionID

	_, err := f.svc.Analyze(ctx, id)
	require.ErrorIs(t, err, ErrTriageIncomplete)
	_, err = f.svc.AnalysisReport(ctx, id)
	require.ErrorIs(t, err, ErrAnalysisUnavailable)

	f.converse(t, id, completeScript...)

	res, err := f.svc.Analyze(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "local", res.Model)
	assert.True(t, res.Success)
	assert.Contains(t, res.Report, "CHIEF COMPLAINT\nbad headache")
	assert.Contains(t, res.Report, "TRIAGE SEVERITY LEVEL\nGREEN")

	stored, err := f.svc.AnalysisReport(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, res, stored)
	assert.Equal(t, float64(0), f.metricValue(t, "healthmate_analyst_fallbacks_total", nil))
	f.svc.Wait()
}

func TestService_AnalyzeCountsFallbacks(t *testing.T) {
	f := newFixture(t)
	f.svc.analyst = degradedAnalyst{}
	ctx := context.Background()
	id := f.svc.StartSession(ctx).SessionID
	f.converse(t, id, completeScript...)

	res, err := f.svc.Analyze(ctx, id)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, float64(1), f.metricValue(t, "healthmate_analyst_fallbacks_total", nil))
	assert.Equal(t, 1, f.logs.FilterMessage("analysis degraded to local text").Len())
	f.svc.Wait()
}

func TestService_ReportPDFWithoutFont(t *testing.T) {
	f := newFixture(t)
	id := f.svc.StartSession(context.Background()).SessionID

	_, err := f.svc.ReportPDF(context.Background(), id)
	assert.True(t, errors.Is(err, report.ErrFontUnavailable))
}

func TestService_DeleteSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.svc.StartSession(ctx).SessionID

	require.NoError(t, f.svc.DeleteSession(ctx, id))

	_, err := f.svc.Converse(ctx, id, "hi")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, f.svc.DeleteSession(ctx, id), ErrSessionNotFound)
	assert.Equal(t, float64(0), f.metricValue(t, "healthmate_sessions_active", nil))
}

func TestService_ArchiveAndNotifyFailuresAreLogged(t *testing.T) {
	f := newFixture(t)
	f.repo.err = errors.New("db down")
	f.notifier.err = errors.New("telegram down")
	id := f.svc.StartSession(context.Background()).SessionID

	last := f.converse(t, id, completeScript...)
	f.svc.Wait()

	assert.Equal(t, "complete", last.Stage)
	assert.Equal(t, 1, f.logs.FilterMessage("failed to archive triage record").Len())
	assert.Equal(t, 1, f.logs.FilterMessage("doctor notification failed").Len())
}

func TestService_ConcurrentSessions(t *testing.T) {
	f := newFixture(t)
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := f.svc.StartSession(context.Background()).SessionID
			for _, msg := range completeScript {
				_, err := f.svc.Converse(context.Background(), id, msg)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	f.svc.Wait()

	assert.Equal(t, n, f.svc.store.Len())
	assert.Len(t, f.repo.saved(), n)
	assert.Equal(t, float64(n), f.metricValue(t, "healthmate_triages_completed_total", map[string]string{"urgency": "GREEN"}))
}

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(Deps{})

	id := svc.StartSession(context.Background()).SessionID
	for _, msg := range completeScript {
		_, err := svc.Converse(context.Background(), id, msg)
		require.NoError(t, err)
	}
	svc.Wait()

	res, err := svc.Analyze(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "local", res.Model)
}
