package cartsync

import (
	"context"

	"github.com/acastellon/shopfront/pkg/logger"
)

// Notifier delivers user-visible messages. The UI layer supplies its own;
// LogNotifier is the default used by the terminal client and tests.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

type LogNotifier struct {
	logg *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

func (n *LogNotifier) Success(ctx context.Context, message string) {
	n.logg.Info(n.logg.WithComponent(ctx, "notification"), message)
}

func (n *LogNotifier) Error(ctx context.Context, message string) {
	n.logg.Warn(n.logg.WithComponent(ctx, "notification"), message)
}
