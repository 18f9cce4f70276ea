package handlers

import "time"

// LinkBody is the representation of a link returned by the management API.
type LinkBody struct {
	Slug         string     `doc:"The short slug"                 example:"promo24"                json:"slug"`
	ShortURL     string     `doc:"The full short URL"             example:"https://lnk.example/promo24" json:"shortUrl"`
	OriginalURL  string     `doc:"The destination URL"            example:"https://example.com/sale"    json:"originalUrl"`
	Title        string     `doc:"Display title"                  json:"title,omitempty"`
	Description  string     `doc:"Display description"            json:"description,omitempty"`
	HasPassword  bool       `doc:"Whether the link is password protected" json:"hasPassword"`
	ExpiresAt    *time.Time `doc:"Expiry timestamp"               json:"expiresAt,omitempty"`
	MaxClicks    *int64     `doc:"Click cap"                      json:"maxClicks,omitempty"`
	ClicksCount  int64      `doc:"Number of recorded clicks"      json:"clicksCount"`
	IsActive     bool       `doc:"Whether redirection is enabled" json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CreateLinkRequest is the request for creating a link.
type CreateLinkRequest struct {
	UserID string `doc:"Owner set by the auth proxy" header:"X-User-ID" required:"true"`
	Body   struct {
		URL         string     `doc:"The URL to shorten, http or https" example:"https://example.com/very/long/path" format:"uri" json:"url"`
		Slug        string     `doc:"Optional custom slug (3-50 chars, [A-Za-z0-9-])" json:"slug,omitempty" required:"false"`
		Title       string     `doc:"Optional display title"       json:"title,omitempty"       required:"false"`
		Description string     `doc:"Optional display description" json:"description,omitempty" required:"false"`
		Password    string     `doc:"Optional password gate"       json:"password,omitempty"    required:"false"`
		ExpiresAt   *time.Time `doc:"Optional expiry timestamp"    json:"expiresAt,omitempty"   required:"false"`
		MaxClicks   *int64     `doc:"Optional click cap"           json:"maxClicks,omitempty"   minimum:"1" required:"false"`
	}
}

// CreateLinkResponse is the response for a successfully created link.
type CreateLinkResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body LinkBody
}

// GetLinkRequest fetches one owned link.
type GetLinkRequest struct {
	UserID string `header:"X-User-ID" required:"true"`
	Slug   string `doc:"The short slug" path:"slug"`
}

// GetLinkResponse wraps a single link.
type GetLinkResponse struct {
	Body LinkBody
}

// ListLinksRequest lists the caller's links.
type ListLinksRequest struct {
	UserID string `header:"X-User-ID" required:"true"`
}

// ListLinksResponse wraps the caller's links.
type ListLinksResponse struct {
	Body struct {
		Links []LinkBody `json:"links"`
	}
}

// UpdateLinkRequest applies partial changes; absent fields stay unchanged.
type UpdateLinkRequest struct {
	UserID string `header:"X-User-ID" required:"true"`
	Slug   string `path:"slug"`
	Body   struct {
		Title       *string    `json:"title,omitempty"       required:"false"`
		Description *string    `json:"description,omitempty" required:"false"`
		IsActive    *bool      `json:"isActive,omitempty"    required:"false"`
		Password    *string    `doc:"New password; empty string removes protection" json:"password,omitempty" required:"false"`
		ExpiresAt   *time.Time `json:"expiresAt,omitempty"   required:"false"`
		MaxClicks   *int64     `json:"maxClicks,omitempty"   minimum:"1" required:"false"`
	}
}

// UpdateLinkResponse wraps the updated link.
type UpdateLinkResponse struct {
	Body LinkBody
}

// DeleteLinkRequest deletes one owned link.
type DeleteLinkRequest struct {
	UserID string `header:"X-User-ID" required:"true"`
	Slug   string `path:"slug"`
}

// DeleteLinkResponse is an empty 204.
type DeleteLinkResponse struct {
	Status int
}

// LinkStatsRequest fetches click statistics for one owned link.
type LinkStatsRequest struct {
	UserID string `header:"X-User-ID" required:"true"`
	Slug   string `path:"slug"`
}

// LinkStatsResponse carries the authoritative counter plus per-day visit
// counts from the analytics store.
type LinkStatsResponse struct {
	Body struct {
		Slug        string           `json:"slug"`
		ClicksCount int64            `json:"clicksCount"`
		Daily       map[string]int64 `doc:"Visits per day, keyed by YYYY-MM-DD" json:"daily"`
	}
}

// LinkQRRequest renders a QR code for the short URL.
type LinkQRRequest struct {
	UserID string `header:"X-User-ID" required:"true"`
	Slug   string `path:"slug"`
	Size   int    `default:"256" doc:"Image size in pixels" maximum:"1024" minimum:"64" query:"size"`
}

// LinkQRResponse carries the QR image as a base64 data URI.
type LinkQRResponse struct {
	Body struct {
		Slug string `json:"slug"`
		QR   string `doc:"PNG data URI" json:"qr"`
	}
}

// RedirectRequest resolves a slug to its destination.
type RedirectRequest struct {
	Slug     string `doc:"The short slug" path:"slug"`
	Password string `doc:"Password for protected links" query:"password" required:"false"`
}

// RedirectResponse is a 301 to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The destination URL" header:"Location"`
	}
}

// PreviewRequest fetches link metadata without consuming a click.
type PreviewRequest struct {
	Slug string `path:"slug"`
}

// PreviewResponse carries display metadata only.
type PreviewResponse struct {
	Body struct {
		Slug        string `json:"slug"`
		Title       string `json:"title,omitempty"`
		Description string `json:"description,omitempty"`
	}
}

// VerifyPasswordRequest checks a password without redirecting.
type VerifyPasswordRequest struct {
	Slug string `path:"slug"`
	Body struct {
		Password string `json:"password"`
	}
}

// VerifyPasswordResponse reports password validity.
type VerifyPasswordResponse struct {
	Body struct {
		Valid bool `json:"valid"`
	}
}
