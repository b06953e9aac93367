package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/novatangle/donorbot/core/logger"
)

func init() {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger.SVCUsers = discard
	logger.SVCEvents = discard
	logger.SVCQuestions = discard
	logger.SVCStats = discard
	logger.SVCAdmin = discard
	logger.SVCExport = discard
}

// recordingNotifier collects deliveries and fails the configured chat ids.
type recordingNotifier struct {
	sent []int64
	fail map[int64]bool
}

func (n *recordingNotifier) Notify(_ context.Context, telegramID int64, _ string) error {
	if n.fail[telegramID] {
		return io.ErrClosedPipe
	}
	n.sent = append(n.sent, telegramID)
	return nil
}
