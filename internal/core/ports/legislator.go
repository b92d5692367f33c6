package ports

import (
	"context"
	"time"

	"github.com/senado-bo/portal-api/internal/core/domain"
)

type LegislatorFilter struct {
	domain.PageRequest
	Party      string
	Caucus     string
	Position   string
	Status     string
	Department string
	Commission string
	Search     string // partial match on names, CI, party and profession
}

type LegislatorRepository interface {
	// Create inserts the record and sets its ID. A taken CI yields domain.ErrDuplicateKey.
	Create(ctx context.Context, l *domain.Legislator) error
	FindByID(ctx context.Context, id string) (*domain.Legislator, error)
	FindByCI(ctx context.Context, ci string) (*domain.Legislator, error)
	List(ctx context.Context, filter LegislatorFilter) ([]*domain.Legislator, int64, error)
	Update(ctx context.Context, l *domain.Legislator) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.LegislatorStats, error)
	// CountActiveBy groups active legislators by a field: "party" or "department".
	CountActiveBy(ctx context.Context, field string) ([]domain.Count, error)
	// ActiveCommissions counts members per commission among active legislators.
	ActiveCommissions(ctx context.Context) ([]domain.Count, error)
}

type LegislatorInput struct {
	FirstNames     string
	LastNames      string
	CI             string
	BirthDate      *time.Time
	BirthPlace     string
	AcademicTitles []string
	Profession     string
	Party          string
	Caucus         string
	Position       domain.LegislatorPosition
	District       domain.District
	Term           domain.Term
	Reelections    int
	Commissions    []domain.Commission
	Contact        domain.Contact
	Biography      string
	PhotoURL       string
	Bills          domain.Bills
	AttendancePct  float64
	Status         domain.LegislatorStatus
}

// LegislatorPatch lists the mutable fields. CI is deliberately absent.
type LegislatorPatch struct {
	FirstNames     *string
	LastNames      *string
	BirthDate      *time.Time
	BirthPlace     *string
	AcademicTitles *[]string
	Profession     *string
	Party          *string
	Caucus         *string
	Position       *domain.LegislatorPosition
	District       *domain.District
	Term           *domain.Term
	Reelections    *int
	Commissions    *[]domain.Commission
	Contact        *domain.Contact
	Biography      *string
	PhotoURL       *string
	Bills          *domain.Bills
	AttendancePct  *float64
	Status         *domain.LegislatorStatus
}

type LegislatorService interface {
	List(ctx context.Context, filter LegislatorFilter) (domain.Page[*domain.Legislator], error)
	Get(ctx context.Context, id string) (*domain.Legislator, error)
	GetByCI(ctx context.Context, ci string) (*domain.Legislator, error)
	Create(ctx context.Context, actor domain.Actor, input LegislatorInput) (*domain.Legislator, error)
	Update(ctx context.Context, actor domain.Actor, id string, patch LegislatorPatch) (*domain.Legislator, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Stats(ctx context.Context) (*domain.LegislatorStats, error)
	DistributionByParty(ctx context.Context) ([]domain.Count, error)
	DistributionByDepartment(ctx context.Context) ([]domain.Count, error)
	ActiveCommissions(ctx context.Context) ([]domain.Count, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.Legislator, error)
}
