package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

type LegislatorHandler struct {
	service ports.LegislatorService
}

func NewLegislatorHandler(service ports.LegislatorService) *LegislatorHandler {
	return &LegislatorHandler{service: service}
}

type legislatorRequest struct {
	FirstNames     string                    `json:"first_names"    validate:"required,max=100"`
	LastNames      string                    `json:"last_names"     validate:"required,max=100"`
	CI             string                    `json:"ci"             validate:"required"`
	BirthDate      *time.Time                `json:"birth_date"`
	BirthPlace     string                    `json:"birth_place"`
	AcademicTitles []string                  `json:"academic_titles"`
	Profession     string                    `json:"profession"`
	Party          string                    `json:"party"          validate:"required"`
	Caucus         string                    `json:"caucus"`
	Position       domain.LegislatorPosition `json:"position"`
	District       domain.District           `json:"district"`
	Term           domain.Term               `json:"term"`
	Reelections    int                       `json:"reelections"    validate:"gte=0"`
	Commissions    []domain.Commission       `json:"commissions"`
	Contact        domain.Contact            `json:"contact"`
	Biography      string                    `json:"biography"`
	PhotoURL       string                    `json:"photo_url"`
	Bills          domain.Bills              `json:"bills"`
	AttendancePct  float64                   `json:"attendance_pct" validate:"gte=0,lte=100"`
	Status         domain.LegislatorStatus   `json:"status"`
}

// updateLegislatorRequest has no ci field; a ci in the body is ignored.
type updateLegislatorRequest struct {
	FirstNames     *string                    `json:"first_names"    validate:"omitempty,max=100"`
	LastNames      *string                    `json:"last_names"     validate:"omitempty,max=100"`
	BirthDate      *time.Time                 `json:"birth_date"`
	BirthPlace     *string                    `json:"birth_place"`
	AcademicTitles *[]string                  `json:"academic_titles"`
	Profession     *string                    `json:"profession"`
	Party          *string                    `json:"party"`
	Caucus         *string                    `json:"caucus"`
	Position       *domain.LegislatorPosition `json:"position"`
	District       *domain.District           `json:"district"`
	Term           *domain.Term               `json:"term"`
	Reelections    *int                       `json:"reelections"    validate:"omitempty,gte=0"`
	Commissions    *[]domain.Commission       `json:"commissions"`
	Contact        *domain.Contact            `json:"contact"`
	Biography      *string                    `json:"biography"`
	PhotoURL       *string                    `json:"photo_url"`
	Bills          *domain.Bills              `json:"bills"`
	AttendancePct  *float64                   `json:"attendance_pct" validate:"omitempty,gte=0,lte=100"`
	Status         *domain.LegislatorStatus   `json:"status"`
}

// List returns a page of legislators.
//
// @Summary      List legislators
// @Tags         legislators
// @Produce      json
// @Param        page        query     int     false  "Page"
// @Param        limit       query     int     false  "Page size"
// @Param        party       query     string  false  "Party"
// @Param        caucus      query     string  false  "Caucus"
// @Param        position    query     string  false  "Position"
// @Param        status      query     string  false  "Status"
// @Param        department  query     string  false  "Department"
// @Param        commission  query     string  false  "Commission name"
// @Param        search      query     string  false  "Names, CI, party or profession"
// @Success      200         {object}  Envelope
// @Router       /api/legislators [get]
func (h *LegislatorHandler) List(c echo.Context) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	result, err := h.service.List(c.Request().Context(), ports.LegislatorFilter{
		PageRequest: page,
		Party:       c.QueryParam("party"),
		Caucus:      c.QueryParam("caucus"),
		Position:    c.QueryParam("position"),
		Status:      c.QueryParam("status"),
		Department:  c.QueryParam("department"),
		Commission:  c.QueryParam("commission"),
		Search:      c.QueryParam("search"),
	})
	if err != nil {
		return err
	}
	return ok(c, pageResponse("legislators", result))
}

// Positions lists the chamber positions.
//
// @Summary      Legislator positions
// @Tags         legislators
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /api/legislators/positions [get]
func (h *LegislatorHandler) Positions(c echo.Context) error {
	return ok(c, domain.LegislatorPositions)
}

// Statuses lists the legislator statuses.
//
// @Summary      Legislator statuses
// @Tags         legislators
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /api/legislators/statuses [get]
func (h *LegislatorHandler) Statuses(c echo.Context) error {
	return ok(c, domain.LegislatorStatuses)
}

// DistributionByParty counts active legislators per party.
//
// @Summary      Distribution by party
// @Tags         legislators
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /api/legislators/distribution/party [get]
func (h *LegislatorHandler) DistributionByParty(c echo.Context) error {
	counts, err := h.service.DistributionByParty(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, counts)
}

// DistributionByDepartment counts active legislators per department.
//
// @Summary      Distribution by department
// @Tags         legislators
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /api/legislators/distribution/department [get]
func (h *LegislatorHandler) DistributionByDepartment(c echo.Context) error {
	counts, err := h.service.DistributionByDepartment(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, counts)
}

// Commissions lists the commissions of active legislators with member counts.
//
// @Summary      Active commissions
// @Tags         legislators
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /api/legislators/commissions [get]
func (h *LegislatorHandler) Commissions(c echo.Context) error {
	counts, err := h.service.ActiveCommissions(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, counts)
}

// Search matches legislators by name, CI, party or profession.
//
// @Summary      Search legislators
// @Tags         legislators
// @Produce      json
// @Param        q      query     string  true   "Query"
// @Param        limit  query     int     false  "Maximum results"
// @Success      200    {object}  Envelope
// @Failure      400    {object}  Envelope
// @Router       /api/legislators/search [get]
func (h *LegislatorHandler) Search(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	items, err := h.service.Search(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return err
	}
	return ok(c, items)
}

// GetByCI returns a legislator by national identity number.
//
// @Summary      Get legislator by CI
// @Tags         legislators
// @Produce      json
// @Param        ci   path      string  true  "CI"
// @Success      200  {object}  Envelope{data=domain.Legislator}
// @Failure      404  {object}  Envelope
// @Router       /api/legislators/ci/{ci} [get]
func (h *LegislatorHandler) GetByCI(c echo.Context) error {
	l, err := h.service.GetByCI(c.Request().Context(), c.Param("ci"))
	if err != nil {
		return err
	}
	return ok(c, l)
}

// Get returns a legislator by id.
//
// @Summary      Get legislator
// @Tags         legislators
// @Produce      json
// @Param        id   path      string  true  "Legislator ID"
// @Success      200  {object}  Envelope{data=domain.Legislator}
// @Failure      404  {object}  Envelope
// @Router       /api/legislators/{id} [get]
func (h *LegislatorHandler) Get(c echo.Context) error {
	l, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, l)
}

// Stats aggregates legislator counts.
//
// @Summary      Legislator statistics
// @Tags         legislators
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=domain.LegislatorStats}
// @Failure      403  {object}  Envelope
// @Router       /api/legislators/stats [get]
func (h *LegislatorHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, stats)
}

// Create registers a legislator.
//
// @Summary      Create legislator
// @Tags         legislators
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      legislatorRequest  true  "Legislator"
// @Success      201   {object}  Envelope{data=domain.Legislator}
// @Failure      400   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /api/legislators [post]
func (h *LegislatorHandler) Create(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req legislatorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	l, err := h.service.Create(c.Request().Context(), a, ports.LegislatorInput{
		FirstNames:     req.FirstNames,
		LastNames:      req.LastNames,
		CI:             req.CI,
		BirthDate:      req.BirthDate,
		BirthPlace:     req.BirthPlace,
		AcademicTitles: req.AcademicTitles,
		Profession:     req.Profession,
		Party:          req.Party,
		Caucus:         req.Caucus,
		Position:       req.Position,
		District:       req.District,
		Term:           req.Term,
		Reelections:    req.Reelections,
		Commissions:    req.Commissions,
		Contact:        req.Contact,
		Biography:      req.Biography,
		PhotoURL:       req.PhotoURL,
		Bills:          req.Bills,
		AttendancePct:  req.AttendancePct,
		Status:         req.Status,
	})
	if err != nil {
		return err
	}
	return created(c, l, "legislator created")
}

// Update patches a legislator. The CI cannot change.
//
// @Summary      Update legislator
// @Tags         legislators
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Legislator ID"
// @Param        body  body      updateLegislatorRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.Legislator}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /api/legislators/{id} [put]
func (h *LegislatorHandler) Update(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req updateLegislatorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	l, err := h.service.Update(c.Request().Context(), a, c.Param("id"), ports.LegislatorPatch{
		FirstNames:     req.FirstNames,
		LastNames:      req.LastNames,
		BirthDate:      req.BirthDate,
		BirthPlace:     req.BirthPlace,
		AcademicTitles: req.AcademicTitles,
		Profession:     req.Profession,
		Party:          req.Party,
		Caucus:         req.Caucus,
		Position:       req.Position,
		District:       req.District,
		Term:           req.Term,
		Reelections:    req.Reelections,
		Commissions:    req.Commissions,
		Contact:        req.Contact,
		Biography:      req.Biography,
		PhotoURL:       req.PhotoURL,
		Bills:          req.Bills,
		AttendancePct:  req.AttendancePct,
		Status:         req.Status,
	})
	if err != nil {
		return err
	}
	return ok(c, l)
}

// Delete removes a legislator.
//
// @Summary      Delete legislator
// @Tags         legislators
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Legislator ID"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/legislators/{id} [delete]
func (h *LegislatorHandler) Delete(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), a, c.Param("id")); err != nil {
		return err
	}
	return message(c, "legislator deleted")
}
