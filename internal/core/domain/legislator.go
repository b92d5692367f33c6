package domain

import "time"

type LegislatorPosition string

const (
	PositionPresident     LegislatorPosition = "Presidente"
	PositionVicePresident LegislatorPosition = "Vicepresidente"
	PositionSenator       LegislatorPosition = "Senador"
	PositionSenatorF      LegislatorPosition = "Senadora"
	PositionSecretary     LegislatorPosition = "Secretario"
	PositionProSecretary  LegislatorPosition = "Pro-Secretario"
)

var LegislatorPositions = []LegislatorPosition{
	PositionPresident, PositionVicePresident, PositionSenator,
	PositionSenatorF, PositionSecretary, PositionProSecretary,
}

type LegislatorStatus string

const (
	LegislatorActive    LegislatorStatus = "activo"
	LegislatorInactive  LegislatorStatus = "inactivo"
	LegislatorSuspended LegislatorStatus = "suspendido"
	LegislatorOnLeave   LegislatorStatus = "licencia"
)

var LegislatorStatuses = []LegislatorStatus{LegislatorActive, LegislatorInactive, LegislatorSuspended, LegislatorOnLeave}

// CommissionRoles are the seats a legislator may hold in a commission.
var CommissionRoles = []string{"Presidente", "Vicepresidente", "Secretario", "Miembro"}

const MinLegislatorAge = 25

var ErrLegislatorNotFound = wrapNotFound("legislator not found")

type District struct {
	Department   string `json:"department,omitempty" bson:"department,omitempty"`
	Province     string `json:"province,omitempty" bson:"province,omitempty"`
	Municipality string `json:"municipality,omitempty" bson:"municipality,omitempty"`
	Constituency string `json:"constituency,omitempty" bson:"constituency,omitempty"`
}

type Term struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}

type Commission struct {
	Name   string `json:"name" bson:"name"`
	Role   string `json:"role" bson:"role"`
	Period string `json:"period,omitempty" bson:"period,omitempty"`
}

type Phone struct {
	Office string `json:"office,omitempty" bson:"office,omitempty"`
	Mobile string `json:"mobile,omitempty" bson:"mobile,omitempty"`
}

type Contact struct {
	Email         string            `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Phone         Phone             `json:"phone" bson:"phone"`
	OfficeAddress string            `json:"office_address,omitempty" bson:"office_address,omitempty"`
	Social        map[string]string `json:"social,omitempty" bson:"social,omitempty"`
}

type Bills struct {
	Presented int `json:"presented" bson:"presented"`
	Approved  int `json:"approved" bson:"approved"`
}

type Legislator struct {
	ID             string             `json:"id" bson:"_id,omitempty"`
	FirstNames     string             `json:"first_names" bson:"first_names"`
	LastNames      string             `json:"last_names" bson:"last_names"`
	FullName       string             `json:"full_name" bson:"full_name"`
	CI             string             `json:"ci" bson:"ci"`
	BirthDate      *time.Time         `json:"birth_date,omitempty" bson:"birth_date,omitempty"`
	Age            int                `json:"age,omitempty" bson:"age,omitempty"`
	BirthPlace     string             `json:"birth_place,omitempty" bson:"birth_place,omitempty"`
	AcademicTitles []string           `json:"academic_titles,omitempty" bson:"academic_titles,omitempty"`
	Profession     string             `json:"profession,omitempty" bson:"profession,omitempty"`
	Party          string             `json:"party" bson:"party"`
	Caucus         string             `json:"caucus,omitempty" bson:"caucus,omitempty"`
	Position       LegislatorPosition `json:"position" bson:"position"`
	District       District           `json:"district" bson:"district"`
	Term           Term               `json:"term" bson:"term"`
	YearsOfService int                `json:"years_of_service" bson:"years_of_service"`
	Reelections    int                `json:"reelections" bson:"reelections"`
	Commissions    []Commission       `json:"commissions" bson:"commissions"`
	Contact        Contact            `json:"contact" bson:"contact"`
	Biography      string             `json:"biography,omitempty" bson:"biography,omitempty"`
	PhotoURL       string             `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	Bills          Bills              `json:"bills" bson:"bills"`
	AttendancePct  float64            `json:"attendance_pct" bson:"attendance_pct"`
	Status         LegislatorStatus   `json:"status" bson:"status"`
	CreatedBy      string             `json:"created_by" bson:"created_by"`
	LastUpdatedBy  string             `json:"last_updated_by,omitempty" bson:"last_updated_by,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// Derive recomputes the stored derived fields: full name, age and years of service.
func (l *Legislator) Derive(now time.Time) {
	l.FullName = l.FirstNames + " " + l.LastNames
	l.Age = 0
	if l.BirthDate != nil {
		l.Age = yearsBetween(*l.BirthDate, now)
	}
	l.YearsOfService = 0
	if !l.Term.Start.IsZero() && l.Term.Start.Before(now) {
		l.YearsOfService = yearsBetween(l.Term.Start, now)
	}
}

func yearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func (p LegislatorPosition) Valid() bool {
	for _, known := range LegislatorPositions {
		if p == known {
			return true
		}
	}
	return false
}

func (s LegislatorStatus) Valid() bool {
	for _, known := range LegislatorStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type LegislatorStats struct {
	Total      int64   `json:"total"`
	ByParty    []Count `json:"by_party"`
	ByPosition []Count `json:"by_position"`
	ByStatus   []Count `json:"by_status"`
}
