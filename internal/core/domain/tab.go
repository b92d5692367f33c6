package domain

import (
	"regexp"
	"time"
)

const DefaultTabColor = "#e03735"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var (
	ErrTabCategoryNotFound = wrapNotFound("tab category not found")
	ErrTabLinkNotFound     = wrapNotFound("tab link not found")
)

// ValidColor reports whether s is a #rrggbb hex color.
func ValidColor(s string) bool {
	return hexColor.MatchString(s)
}

// TabCategory is a top-level navigation tab.
type TabCategory struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	CategoryID    string    `json:"category_id" bson:"category_id"`
	Name          string    `json:"name" bson:"name"`
	Description   string    `json:"description,omitempty" bson:"description,omitempty"`
	Order         int       `json:"order" bson:"order"`
	Color         string    `json:"color" bson:"color"`
	Icon          string    `json:"icon,omitempty" bson:"icon,omitempty"`
	IsActive      bool      `json:"is_active" bson:"is_active"`
	CreatedBy     string    `json:"created_by" bson:"created_by"`
	LastUpdatedBy string    `json:"last_updated_by,omitempty" bson:"last_updated_by,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`

	// LinksCount is filled on admin listings only.
	LinksCount int64 `json:"links_count" bson:"-"`
}

// TabLink is a navigation entry inside a category.
type TabLink struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	CategoryID      string    `json:"category_id" bson:"category_id"`
	AreaTitle       string    `json:"area_title" bson:"area_title"`
	AreaDescription string    `json:"area_description,omitempty" bson:"area_description,omitempty"`
	LinkID          string    `json:"link_id" bson:"link_id"`
	Title           string    `json:"title" bson:"title"`
	Description     string    `json:"description" bson:"description"`
	Icon            string    `json:"icon" bson:"icon"`
	Path            string    `json:"path" bson:"path"`
	Order           int       `json:"order" bson:"order"`
	IsActive        bool      `json:"is_active" bson:"is_active"`
	CreatedBy       string    `json:"created_by" bson:"created_by"`
	LastUpdatedBy   string    `json:"last_updated_by,omitempty" bson:"last_updated_by,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// LinkPosition places a link at a position within its category.
type LinkPosition struct {
	LinkID   string `json:"link_id"`
	Position int    `json:"position"`
}

// ReorderStep is the gap between consecutive order values after a reorder.
const ReorderStep = 10

// TabsTree is the public navigation structure.
type TabsTree struct {
	Tabs  []TabEntry              `json:"tabs"`
	Areas map[string]TabArea      `json:"areas"`
	Links map[string][]TabLinkRef `json:"links"`
}

type TabEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color"`
}

type TabArea struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
}

type TabLinkRef struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Path        string `json:"path"`
}

// DeleteOutcome reports how a delete was carried out.
type DeleteOutcome string

const (
	DeletedHard DeleteOutcome = "deleted"
	DeletedSoft DeleteOutcome = "deactivated"
)

// TabIcons is the icon gallery offered to editors.
var TabIcons = []string{
	"building", "users", "file-text", "gavel", "landmark", "book-open",
	"calendar", "newspaper", "megaphone", "scale", "shield", "globe",
	"map", "phone", "mail", "info", "search", "archive", "clipboard", "award",
}
