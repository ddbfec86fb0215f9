package report

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"healthmate/internal/triage"
)

// Telegram caps message text at 4096 characters.
const maxMessageRunes = 4096

type TelegramClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, data []byte, fileName, caption string) error
}

// Service delivers reports to the doctor chat.
type Service struct {
	tgClient     TelegramClient
	doctorChatID int64
	renderer     *Renderer
	logger       *zap.Logger
}

func NewService(tg TelegramClient, doctorChatID int64, renderer *Renderer, logger *zap.Logger) *Service {
	if renderer == nil {
		renderer = NewRenderer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tgClient:     tg,
		doctorChatID: doctorChatID,
		renderer:     renderer,
		logger:       logger,
	}
}

// SendDoctorReport sends the PDF report, or the plain-text report when no
// font is available for the PDF.
func (s *Service) SendDoctorReport(ctx context.Context, snap Snapshot) error {
	data, err := s.renderer.PDF(snap)
	if errors.Is(err, ErrFontUnavailable) {
		s.logger.Warn("PDF font unavailable, sending text report",
			zap.String("session_id", snap.SessionID),
			zap.Error(err),
		)
		if err := s.tgClient.SendMessage(ctx, s.doctorChatID, truncate(Text(snap), maxMessageRunes)); err != nil {
			return fmt.Errorf("sending text report: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	fileName := fmt.Sprintf("triage_%s.pdf", snap.SessionID)
	if err := s.tgClient.SendDocument(ctx, s.doctorChatID, data, fileName, caption(snap)); err != nil {
		return fmt.Errorf("sending PDF report: %w", err)
	}
	s.logger.Info("doctor report sent", zap.String("session_id", snap.SessionID), zap.Int("bytes", len(data)))
	return nil
}

// NotifyEmergency sends a short alert ahead of the full report.
func (s *Service) NotifyEmergency(ctx context.Context, sessionID string, trig triage.Trigger) error {
	text := fmt.Sprintf("🚨 EMERGENCY in session %s\nCategory: %s\nPatient said: %q\nPatient was told to call 911.",
		sessionID, trig.Category, trig.Phrase)
	if err := s.tgClient.SendMessage(ctx, s.doctorChatID, text); err != nil {
		return fmt.Errorf("sending emergency alert: %w", err)
	}
	return nil
}

func caption(snap Snapshot) string {
	switch {
	case snap.Emergency != nil:
		return "EMERGENCY: " + snap.Emergency.Category
	case snap.Risk != nil:
		return fmt.Sprintf("Triage %s (%.2f)", snap.Risk.UrgencyLevel, snap.Risk.OverallScore)
	default:
		return "Triage report"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
