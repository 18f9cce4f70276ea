package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/linkdeck/internal/analytics"
	"github.com/serroba/linkdeck/internal/link"
	"github.com/serroba/linkdeck/internal/messaging"
	"go.uber.org/zap"
)

// passwordRequiredError is the 401 body for protected links. It carries
// requiresPassword so a client can render a challenge form.
type passwordRequiredError struct {
	Message          string `json:"message"`
	RequiresPassword bool   `json:"requiresPassword"`
	Slug             string `json:"slug"`
}

func (e *passwordRequiredError) Error() string {
	return e.Message
}

func (e *passwordRequiredError) GetStatus() int {
	return http.StatusUnauthorized
}

// RedirectHandler serves the public, unauthenticated redirect surface.
type RedirectHandler struct {
	repo           link.Repository
	publishVisited messaging.Publish[analytics.LinkVisitedEvent]
	logger         *zap.Logger
	now            func() time.Time
}

// NewRedirectHandler creates the public redirect handler.
func NewRedirectHandler(
	repo link.Repository,
	publishVisited messaging.Publish[analytics.LinkVisitedEvent],
	logger *zap.Logger,
) *RedirectHandler {
	return &RedirectHandler{
		repo:           repo,
		publishVisited: publishVisited,
		logger:         logger,
		now:            time.Now,
	}
}

// Redirect resolves a slug and, when the policy allows it, records a click
// and answers with a 301 to the destination.
func (h *RedirectHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	l, err := h.fetch(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	switch verdict := l.Resolve(req.Password, h.now()); verdict {
	case link.VerdictInactive:
		return nil, huma.Error410Gone("this link has been deactivated")
	case link.VerdictExpired:
		return nil, huma.Error410Gone("this link has expired")
	case link.VerdictCapReached:
		return nil, huma.Error410Gone("this link has reached its click limit")
	case link.VerdictPasswordRequired:
		return nil, &passwordRequiredError{
			Message:          "this link is password protected",
			RequiresPassword: true,
			Slug:             l.Slug,
		}
	case link.VerdictPasswordMismatch:
		return nil, huma.Error403Forbidden("incorrect password")
	case link.VerdictResolvable:
	}

	h.recordClick(ctx, l)

	resp := &RedirectResponse{Status: http.StatusMovedPermanently}
	resp.Headers.Location = l.OriginalURL

	return resp, nil
}

// recordClick persists the click and publishes the visit event. Failures
// are logged but never block the redirect: the visitor experience wins over
// analytics completeness.
func (h *RedirectHandler) recordClick(ctx context.Context, l *link.Link) {
	meta := RequestMetaFromContext(ctx)
	client := analytics.ClassifyUserAgent(meta.UserAgent)

	click := &link.Click{
		ID:        uuid.New(),
		LinkID:    l.ID,
		IPAddress: meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
		Device:    client.Device,
		Browser:   client.Browser,
		OS:        client.OS,
		ClickedAt: h.now().UTC(),
	}

	if err := h.repo.RecordClick(ctx, click); err != nil {
		h.logger.Error("failed to record click",
			zap.String("slug", l.Slug),
			zap.Error(err),
		)

		return
	}

	event := &analytics.LinkVisitedEvent{
		ClickID:   click.ID,
		LinkID:    l.ID,
		Slug:      l.Slug,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
		VisitedAt: click.ClickedAt,
	}

	if err := h.publishVisited(event); err != nil {
		h.logger.Error("failed to publish visit event",
			zap.String("slug", l.Slug),
			zap.Error(err),
		)
	}
}

// Preview returns display metadata without consuming a click or requiring a
// password. Inactive and expired links stay hidden.
func (h *RedirectHandler) Preview(ctx context.Context, req *PreviewRequest) (*PreviewResponse, error) {
	l, err := h.fetch(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	switch l.Available(h.now()) {
	case link.VerdictInactive:
		return nil, huma.Error410Gone("this link has been deactivated")
	case link.VerdictExpired:
		return nil, huma.Error410Gone("this link has expired")
	}

	resp := &PreviewResponse{}
	resp.Body.Slug = l.Slug
	resp.Body.Title = l.Title
	resp.Body.Description = l.Description

	return resp, nil
}

// VerifyPassword reports password validity without redirecting or recording
// a click. Unprotected links accept any password.
func (h *RedirectHandler) VerifyPassword(ctx context.Context, req *VerifyPasswordRequest) (*VerifyPasswordResponse, error) {
	l, err := h.fetch(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	resp := &VerifyPasswordResponse{}
	resp.Body.Valid = l.PasswordHash == "" || link.VerifyPassword(req.Body.Password, l.PasswordHash)

	return resp, nil
}

func (h *RedirectHandler) fetch(ctx context.Context, slug string) (*link.Link, error) {
	// Reserved segments are never slugs, even if a row exists.
	if link.IsReservedSlug(slug) {
		return nil, huma.Error404NotFound("short link not found")
	}

	l, err := h.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("short link not found")
		}

		return nil, huma.Error500InternalServerError("failed to load link")
	}

	return l, nil
}
