package engine

import (
	"context"
	"time"

	"github.com/finlow/switchbridge/internal/infrastructure/logging"
)

// retryDelay is the fixed wait between attempts. Devices are a few
// meters away over BLE or one rate-unlimited call over the cloud, so
// linear fixed-delay beats exponential backoff here.
const retryDelay = time.Second

// Retry runs op, repeating after a fixed delay while the budget lasts.
//
// maxRetries counts additional attempts after the first: 0 means try
// once and never retry. Each retry is logged at info level. The final
// failure is returned unchanged so callers can still match the
// original cause with errors.Is.
func Retry(ctx context.Context, logger *logging.Logger, maxRetries int, op func(context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		logger.Info("retrying operation",
			"attempt", attempt+1,
			"remaining", maxRetries-attempt,
			"error", err)

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
