package domain

import "time"

// ContentType classifies a content item and selects its public URL segment.
type ContentType string

const (
	ContentPage         ContentType = "page"
	ContentNews         ContentType = "news"
	ContentArticle      ContentType = "article"
	ContentAnnouncement ContentType = "announcement"
)

var ContentTypes = []ContentType{ContentPage, ContentNews, ContentArticle, ContentAnnouncement}

var contentURLSegments = map[ContentType]string{
	ContentPage:         "paginas",
	ContentNews:         "noticias",
	ContentArticle:      "articulos",
	ContentAnnouncement: "anuncios",
}

type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentPublished ContentStatus = "published"
	ContentArchived  ContentStatus = "archived"
	ContentScheduled ContentStatus = "scheduled"
)

var ContentStatuses = []ContentStatus{ContentDraft, ContentPublished, ContentArchived, ContentScheduled}

var ContentCategories = []string{
	"institucional", "historia", "directiva", "noticias",
	"eventos", "transparencia", "participacion", "legislacion",
}

var ContentLanguages = []string{"es", "qu", "ay"}

const (
	DefaultContentCategory = "noticias"
	DefaultContentLanguage = "es"
	MaxContentRevisions    = 20
)

// ErrContentNotFound is returned when no content matches the lookup.
var ErrContentNotFound = wrapNotFound("content not found")

type Image struct {
	URL     string `json:"url" bson:"url"`
	Alt     string `json:"alt,omitempty" bson:"alt,omitempty"`
	Caption string `json:"caption,omitempty" bson:"caption,omitempty"`
	Credit  string `json:"credit,omitempty" bson:"credit,omitempty"`
}

type Attachment struct {
	Name     string `json:"name" bson:"name"`
	URL      string `json:"url" bson:"url"`
	MimeType string `json:"mime_type,omitempty" bson:"mime_type,omitempty"`
	Size     int64  `json:"size,omitempty" bson:"size,omitempty"`
}

type SEO struct {
	Title        string   `json:"title,omitempty" bson:"title,omitempty"`
	Description  string   `json:"description,omitempty" bson:"description,omitempty"`
	Keywords     []string `json:"keywords,omitempty" bson:"keywords,omitempty"`
	CanonicalURL string   `json:"canonical_url,omitempty" bson:"canonical_url,omitempty"`
}

// Revision is a prior body kept in the bounded version history.
type Revision struct {
	Body       string    `json:"body" bson:"body"`
	ModifiedBy string    `json:"modified_by" bson:"modified_by"`
	ModifiedAt time.Time `json:"modified_at" bson:"modified_at"`
	Revision   int       `json:"revision" bson:"revision"`
	Comment    string    `json:"comment,omitempty" bson:"comment,omitempty"`
}

type Content struct {
	ID             string        `json:"id" bson:"_id,omitempty"`
	Title          string        `json:"title" bson:"title"`
	Slug           string        `json:"slug" bson:"slug"`
	Body           string        `json:"body" bson:"body"`
	Excerpt        string        `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	Type           ContentType   `json:"type" bson:"type"`
	Category       string        `json:"category" bson:"category"`
	Tags           []string      `json:"tags" bson:"tags"`
	Author         string        `json:"author" bson:"author"`
	Status         ContentStatus `json:"status" bson:"status"`
	Language       string        `json:"language" bson:"language"`
	FeaturedImage  *Image        `json:"featured_image,omitempty" bson:"featured_image,omitempty"`
	Gallery        []Image       `json:"gallery,omitempty" bson:"gallery,omitempty"`
	Attachments    []Attachment  `json:"attachments,omitempty" bson:"attachments,omitempty"`
	SEO            SEO           `json:"seo" bson:"seo"`
	PublishedAt    *time.Time    `json:"published_at,omitempty" bson:"published_at,omitempty"`
	ScheduledFor   *time.Time    `json:"scheduled_for,omitempty" bson:"scheduled_for,omitempty"`
	ExpiresAt      *time.Time    `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	Views          int64         `json:"views" bson:"views"`
	Revision       int           `json:"revision" bson:"revision"`
	VersionHistory []Revision    `json:"version_history,omitempty" bson:"version_history,omitempty"`
	CreatedBy      string        `json:"created_by" bson:"created_by"`
	LastModifiedBy string        `json:"last_modified_by,omitempty" bson:"last_modified_by,omitempty"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" bson:"updated_at"`
}

// URL is the public path of the item on the portal front end.
func (c *Content) URL() string {
	seg, ok := contentURLSegments[c.Type]
	if !ok {
		seg = contentURLSegments[ContentPage]
	}
	return "/contenido/" + seg + "/" + c.Slug
}

// VisibleAt reports whether the item is publicly visible at now: published, or
// scheduled with a due date, and not past its expiry.
func (c *Content) VisibleAt(now time.Time) bool {
	if c.ExpiresAt != nil && !c.ExpiresAt.After(now) {
		return false
	}
	switch c.Status {
	case ContentPublished:
		return true
	case ContentScheduled:
		return c.ScheduledFor != nil && !c.ScheduledFor.After(now)
	}
	return false
}

// StampPublication fills in the publication dates implied by the status.
func (c *Content) StampPublication(now time.Time) {
	switch c.Status {
	case ContentPublished:
		if c.PublishedAt == nil {
			t := now
			c.PublishedAt = &t
		}
	case ContentScheduled:
		if c.ScheduledFor == nil {
			t := now
			c.ScheduledFor = &t
		}
	}
}

// PushRevision records the current body before an update and bumps the
// revision, keeping at most MaxContentRevisions entries.
func (c *Content) PushRevision(modifiedBy string, at time.Time, comment string) {
	c.VersionHistory = append(c.VersionHistory, Revision{
		Body:       c.Body,
		ModifiedBy: modifiedBy,
		ModifiedAt: at,
		Revision:   c.Revision,
		Comment:    comment,
	})
	if n := len(c.VersionHistory); n > MaxContentRevisions {
		c.VersionHistory = c.VersionHistory[n-MaxContentRevisions:]
	}
	c.Revision++
}

func (t ContentType) Valid() bool {
	for _, known := range ContentTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (s ContentStatus) Valid() bool {
	for _, known := range ContentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ContentStats aggregates counts across the collection.
type ContentStats struct {
	Total      int64   `json:"total"`
	ByType     []Count `json:"by_type"`
	ByStatus   []Count `json:"by_status"`
	ByCategory []Count `json:"by_category"`
}
