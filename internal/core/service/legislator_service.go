package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
	"github.com/senado-bo/portal-api/internal/pkg/metrics"
)

// valueValidator checks single values on the merged entity, after a patch is applied.
var valueValidator = validator.New()

type LegislatorService struct {
	repo ports.LegislatorRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewLegislatorService(repo ports.LegislatorRepository, log zerolog.Logger) *LegislatorService {
	return &LegislatorService{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (s *LegislatorService) List(ctx context.Context, filter ports.LegislatorFilter) (domain.Page[*domain.Legislator], error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.Page[*domain.Legislator]{}, err
	}
	return domain.NewPage(items, total, filter.PageRequest), nil
}

func (s *LegislatorService) Get(ctx context.Context, id string) (*domain.Legislator, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *LegislatorService) GetByCI(ctx context.Context, ci string) (*domain.Legislator, error) {
	return s.repo.FindByCI(ctx, strings.TrimSpace(ci))
}

func (s *LegislatorService) Create(ctx context.Context, actor domain.Actor, in ports.LegislatorInput) (*domain.Legislator, error) {
	now := s.now()
	l := &domain.Legislator{
		FirstNames:     strings.TrimSpace(in.FirstNames),
		LastNames:      strings.TrimSpace(in.LastNames),
		CI:             strings.TrimSpace(in.CI),
		BirthDate:      in.BirthDate,
		BirthPlace:     in.BirthPlace,
		AcademicTitles: in.AcademicTitles,
		Profession:     in.Profession,
		Party:          strings.TrimSpace(in.Party),
		Caucus:         in.Caucus,
		Position:       in.Position,
		District:       in.District,
		Term:           in.Term,
		Reelections:    in.Reelections,
		Commissions:    in.Commissions,
		Contact:        in.Contact,
		Biography:      in.Biography,
		PhotoURL:       in.PhotoURL,
		Bills:          in.Bills,
		AttendancePct:  in.AttendancePct,
		Status:         in.Status,
		CreatedBy:      actor.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if l.Position == "" {
		l.Position = domain.PositionSenator
	}
	if l.Status == "" {
		l.Status = domain.LegislatorActive
	}
	if l.Commissions == nil {
		l.Commissions = []domain.Commission{}
	}
	l.Derive(now)
	if err := validateLegislator(l); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("legislator", "create").Inc()
	s.log.Info().Str("legislator_id", l.ID).Str("by", actor.ID).Msg("legislator created")
	return l, nil
}

// Update applies the patch. The CI is immutable and is not part of the patch.
func (s *LegislatorService) Update(ctx context.Context, actor domain.Actor, id string, p ports.LegislatorPatch) (*domain.Legislator, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.FirstNames != nil {
		l.FirstNames = strings.TrimSpace(*p.FirstNames)
	}
	if p.LastNames != nil {
		l.LastNames = strings.TrimSpace(*p.LastNames)
	}
	if p.BirthDate != nil {
		l.BirthDate = p.BirthDate
	}
	if p.BirthPlace != nil {
		l.BirthPlace = *p.BirthPlace
	}
	if p.AcademicTitles != nil {
		l.AcademicTitles = *p.AcademicTitles
	}
	if p.Profession != nil {
		l.Profession = *p.Profession
	}
	if p.Party != nil {
		l.Party = strings.TrimSpace(*p.Party)
	}
	if p.Caucus != nil {
		l.Caucus = *p.Caucus
	}
	if p.Position != nil {
		l.Position = *p.Position
	}
	if p.District != nil {
		l.District = *p.District
	}
	if p.Term != nil {
		l.Term = *p.Term
	}
	if p.Reelections != nil {
		l.Reelections = *p.Reelections
	}
	if p.Commissions != nil {
		l.Commissions = *p.Commissions
	}
	if p.Contact != nil {
		l.Contact = *p.Contact
	}
	if p.Biography != nil {
		l.Biography = *p.Biography
	}
	if p.PhotoURL != nil {
		l.PhotoURL = *p.PhotoURL
	}
	if p.Bills != nil {
		l.Bills = *p.Bills
	}
	if p.AttendancePct != nil {
		l.AttendancePct = *p.AttendancePct
	}
	if p.Status != nil {
		l.Status = *p.Status
	}

	now := s.now()
	l.Derive(now)
	if err := validateLegislator(l); err != nil {
		return nil, err
	}
	l.LastUpdatedBy = actor.ID
	l.UpdatedAt = now

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("legislator", "update").Inc()
	s.log.Info().Str("legislator_id", l.ID).Str("by", actor.ID).Msg("legislator updated")
	return l, nil
}

func (s *LegislatorService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("legislator", "delete").Inc()
	s.log.Info().Str("legislator_id", id).Str("by", actor.ID).Msg("legislator deleted")
	return nil
}

func (s *LegislatorService) Stats(ctx context.Context) (*domain.LegislatorStats, error) {
	return s.repo.Stats(ctx)
}

func (s *LegislatorService) DistributionByParty(ctx context.Context) ([]domain.Count, error) {
	return s.repo.CountActiveBy(ctx, "party")
}

func (s *LegislatorService) DistributionByDepartment(ctx context.Context) ([]domain.Count, error) {
	return s.repo.CountActiveBy(ctx, "department")
}

func (s *LegislatorService) ActiveCommissions(ctx context.Context) ([]domain.Count, error) {
	return s.repo.ActiveCommissions(ctx)
}

func (s *LegislatorService) Search(ctx context.Context, query string, limit int) ([]*domain.Legislator, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("q", "search query is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	page, err := s.List(ctx, ports.LegislatorFilter{
		PageRequest: domain.PageRequest{Page: 1, Limit: limit},
		Search:      query,
	})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func validateLegislator(l *domain.Legislator) error {
	var fields []domain.FieldError
	add := func(field, msg string) {
		fields = append(fields, domain.FieldError{Field: field, Message: msg})
	}

	if l.FirstNames == "" {
		add("first_names", "first_names is required")
	}
	if l.LastNames == "" {
		add("last_names", "last_names is required")
	}
	if l.CI == "" {
		add("ci", "ci is required")
	}
	if l.Party == "" {
		add("party", "party is required")
	}
	if !l.Position.Valid() {
		add("position", "position is not recognized")
	}
	if !l.Status.Valid() {
		add("status", "status is not recognized")
	}
	if l.Term.Start.IsZero() || l.Term.End.IsZero() {
		add("term", "term start and end are required")
	} else if !l.Term.End.After(l.Term.Start) {
		add("term.end", "term end must be after its start")
	}
	if l.BirthDate != nil && l.Age < domain.MinLegislatorAge {
		add("birth_date", "legislators must be at least 25 years old")
	}
	if l.AttendancePct < 0 || l.AttendancePct > 100 {
		add("attendance_pct", "attendance_pct must be between 0 and 100")
	}
	if l.Contact.Email != "" {
		if err := valueValidator.Var(l.Contact.Email, "email"); err != nil {
			add("contact.email", "contact email is not valid")
		}
	}
	for _, c := range l.Commissions {
		if strings.TrimSpace(c.Name) == "" || !contains(domain.CommissionRoles, c.Role) {
			add("commissions", "each commission needs a name and a role of Presidente, Vicepresidente, Secretario or Miembro")
			break
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
