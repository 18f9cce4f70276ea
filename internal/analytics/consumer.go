package analytics

import (
	"context"

	"github.com/google/uuid"
	"github.com/serroba/linkdeck/internal/messaging"
	"go.uber.org/zap"
)

// ClickGeoStore back-fills the derived country on a persisted click row.
type ClickGeoStore interface {
	SetClickCountry(ctx context.Context, clickID uuid.UUID, country string) error
}

// NewVisitedHandler returns the handler for LinkVisitedEvent: it enriches
// the click row with a country code and bumps the per-day counter. Geo
// failures are silent (empty country); counter and enrichment errors nack
// the message for redelivery.
func NewVisitedHandler(
	clicks ClickGeoStore,
	locator Locator,
	visits VisitStore,
	logger *zap.Logger,
) messaging.Handler[LinkVisitedEvent] {
	return func(ctx context.Context, event *LinkVisitedEvent) error {
		if country := locator.CountryCode(ctx, event.ClientIP); country != "" {
			if err := clicks.SetClickCountry(ctx, event.ClickID, country); err != nil {
				return err
			}
		}

		if err := visits.IncrementDaily(ctx, event.Slug, event.VisitedAt); err != nil {
			return err
		}

		logger.Debug("processed visit",
			zap.String("slug", event.Slug),
			zap.String("clickId", event.ClickID.String()),
		)

		return nil
	}
}

// NewCreatedHandler returns the handler for LinkCreatedEvent. Creation
// events currently only feed the structured log.
func NewCreatedHandler(logger *zap.Logger) messaging.Handler[LinkCreatedEvent] {
	return func(_ context.Context, event *LinkCreatedEvent) error {
		logger.Info("link created",
			zap.String("slug", event.Slug),
			zap.String("userId", event.UserID),
			zap.Bool("customSlug", event.CustomSlug),
			zap.Time("createdAt", event.CreatedAt),
		)

		return nil
	}
}
