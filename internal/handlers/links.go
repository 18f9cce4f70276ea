package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkdeck/internal/analytics"
	"github.com/serroba/linkdeck/internal/link"
	"github.com/serroba/linkdeck/internal/messaging"
	"github.com/serroba/linkdeck/internal/qr"
	"go.uber.org/zap"
)

// LinkHandler serves the owner-scoped management API.
type LinkHandler struct {
	service        *link.Service
	stats          analytics.StatsReader
	qr             *qr.Encoder
	baseURL        string
	publishCreated messaging.Publish[analytics.LinkCreatedEvent]
	logger         *zap.Logger
}

// NewLinkHandler creates the management handler.
func NewLinkHandler(
	service *link.Service,
	stats analytics.StatsReader,
	encoder *qr.Encoder,
	baseURL string,
	publishCreated messaging.Publish[analytics.LinkCreatedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		service:        service,
		stats:          stats,
		qr:             encoder,
		baseURL:        baseURL,
		publishCreated: publishCreated,
		logger:         logger,
	}
}

func (h *LinkHandler) linkBody(l *link.Link) LinkBody {
	return LinkBody{
		Slug:        l.Slug,
		ShortURL:    fmt.Sprintf("%s/%s", h.baseURL, l.Slug),
		OriginalURL: l.OriginalURL,
		Title:       l.Title,
		Description: l.Description,
		HasPassword: l.PasswordHash != "",
		ExpiresAt:   l.ExpiresAt,
		MaxClicks:   l.MaxClicks,
		ClicksCount: l.ClicksCount,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	l, err := h.service.Create(ctx, link.CreateParams{
		UserID:      req.UserID,
		OriginalURL: req.Body.URL,
		CustomSlug:  req.Body.Slug,
		Title:       req.Body.Title,
		Description: req.Body.Description,
		Password:    req.Body.Password,
		ExpiresAt:   req.Body.ExpiresAt,
		MaxClicks:   req.Body.MaxClicks,
	})
	if err != nil {
		return nil, mapCreateError(err)
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		LinkID:      l.ID,
		Slug:        l.Slug,
		OriginalURL: l.OriginalURL,
		UserID:      l.UserID,
		CustomSlug:  req.Body.Slug != "",
		CreatedAt:   l.CreatedAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish creation event",
			zap.String("slug", l.Slug),
			zap.Error(err),
		)
	}

	resp := &CreateLinkResponse{Status: http.StatusCreated}
	resp.Body = h.linkBody(l)
	resp.Headers.Location = resp.Body.ShortURL

	return resp, nil
}

func mapCreateError(err error) error {
	switch {
	case errors.Is(err, link.ErrInvalidSlug), errors.Is(err, link.ErrReservedSlug),
		errors.Is(err, link.ErrInvalidURL):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, link.ErrSlugTaken):
		return huma.Error409Conflict("slug already taken")
	case errors.Is(err, link.ErrSlugSpaceExhausted):
		return huma.Error503ServiceUnavailable("could not allocate a slug, try again")
	default:
		return huma.Error500InternalServerError("failed to create link")
	}
}

func (h *LinkHandler) GetLink(ctx context.Context, req *GetLinkRequest) (*GetLinkResponse, error) {
	l, err := h.service.Get(ctx, req.UserID, req.Slug)
	if err != nil {
		return nil, mapLookupError(err)
	}

	return &GetLinkResponse{Body: h.linkBody(l)}, nil
}

func (h *LinkHandler) ListLinks(ctx context.Context, req *ListLinksRequest) (*ListLinksResponse, error) {
	links, err := h.service.List(ctx, req.UserID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list links")
	}

	resp := &ListLinksResponse{}
	resp.Body.Links = make([]LinkBody, 0, len(links))

	for _, l := range links {
		resp.Body.Links = append(resp.Body.Links, h.linkBody(l))
	}

	return resp, nil
}

func (h *LinkHandler) UpdateLink(ctx context.Context, req *UpdateLinkRequest) (*UpdateLinkResponse, error) {
	l, err := h.service.Update(ctx, req.UserID, req.Slug, link.UpdateParams{
		Title:       req.Body.Title,
		Description: req.Body.Description,
		IsActive:    req.Body.IsActive,
		Password:    req.Body.Password,
		ExpiresAt:   req.Body.ExpiresAt,
		MaxClicks:   req.Body.MaxClicks,
	})
	if err != nil {
		return nil, mapLookupError(err)
	}

	return &UpdateLinkResponse{Body: h.linkBody(l)}, nil
}

func (h *LinkHandler) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*DeleteLinkResponse, error) {
	if err := h.service.Delete(ctx, req.UserID, req.Slug); err != nil {
		return nil, mapLookupError(err)
	}

	return &DeleteLinkResponse{Status: http.StatusNoContent}, nil
}

func (h *LinkHandler) LinkStats(ctx context.Context, req *LinkStatsRequest) (*LinkStatsResponse, error) {
	l, err := h.service.Get(ctx, req.UserID, req.Slug)
	if err != nil {
		return nil, mapLookupError(err)
	}

	daily, err := h.stats.DailyVisits(ctx, l.Slug)
	if err != nil {
		// The counter on the link row is authoritative; daily counts are
		// best-effort.
		h.logger.Warn("failed to read daily visits",
			zap.String("slug", l.Slug),
			zap.Error(err),
		)

		daily = map[string]int64{}
	}

	resp := &LinkStatsResponse{}
	resp.Body.Slug = l.Slug
	resp.Body.ClicksCount = l.ClicksCount
	resp.Body.Daily = daily

	return resp, nil
}

func (h *LinkHandler) LinkQR(ctx context.Context, req *LinkQRRequest) (*LinkQRResponse, error) {
	l, err := h.service.Get(ctx, req.UserID, req.Slug)
	if err != nil {
		return nil, mapLookupError(err)
	}

	uri, err := h.qr.DataURI(fmt.Sprintf("%s/%s", h.baseURL, l.Slug), req.Size)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to render qr code")
	}

	resp := &LinkQRResponse{}
	resp.Body.Slug = l.Slug
	resp.Body.QR = uri

	return resp, nil
}

func mapLookupError(err error) error {
	if errors.Is(err, link.ErrNotFound) {
		return huma.Error404NotFound("link not found")
	}

	return huma.Error500InternalServerError("link operation failed")
}
