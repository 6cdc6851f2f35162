// Package sms delivers password reset codes.
package sms

import (
	"context"

	"ledger/internal/shared/logger"
)

// LogSender writes reset codes to the log instead of sending an SMS. With
// log redaction enabled the code itself is masked.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log.With("service", "LogSender")}
}

func (s *LogSender) SendResetCode(_ context.Context, phone, code string) error {
	s.log.Info("password reset code generated", "phone", phone, "reset_code", code)
	return nil
}
