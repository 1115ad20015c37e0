package console


// Record is one entity instance held in a view store. Field schemas are
// fixed per entity type and match the backend's JSON field names.
type Record interface {
	RecordId() Id
}

// Stalenessable records expose an ordered milestone sequence for the
// staleness classifier. Later milestones happen after earlier ones; the
// final milestone marks resolution.
type Stalenessable interface {
	Milestones() []ClockTime
}


// course incident
type Event struct {
	Id             Id        `json:"id"`
	EventNum       int64     `json:"event_id,omitempty"`
	TimeIn         ClockTime `json:"time_in,omitempty"`
	Bib            string    `json:"bib,omitempty"`
	Location       string    `json:"location,omitempty"`
	ReporterId     *Id       `json:"reporter_id,omitempty"`
	AgencyId       *Id       `json:"agency_id,omitempty"`
	AgencyNotified ClockTime `json:"agency_notified,omitempty"`
	AgencyArrival  ClockTime `json:"agency_arrival,omitempty"`
	Resolved       ClockTime `json:"resolved,omitempty"`
	Notes          string    `json:"notes,omitempty"`
}

func (self *Event) RecordId() Id {
	return self.Id
}

func (self *Event) Milestones() []ClockTime {
	return []ClockTime{self.AgencyNotified, self.AgencyArrival, self.Resolved}
}


// aid station visit
type Encounter struct {
	Id           Id        `json:"id"`
	Bib          string    `json:"bib,omitempty"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Age          int       `json:"age,omitempty"`
	Sex          string    `json:"sex,omitempty"`
	RunnerType   string    `json:"runner_type,omitempty"`
	TimeIn       ClockTime `json:"time_in,omitempty"`
	TimeOut      ClockTime `json:"time_out,omitempty"`
	Presentation string    `json:"presentation,omitempty"`
	Vitals       string    `json:"vitals,omitempty"`
	Iv           string    `json:"iv,omitempty"`
	// basic metabolic panel
	Na          string `json:"na,omitempty"`
	Kplus       string `json:"kplus,omitempty"`
	Cl          string `json:"cl,omitempty"`
	Tco         string `json:"tco,omitempty"`
	Bun         string `json:"bun,omitempty"`
	Cr          string `json:"cr,omitempty"`
	Glu         string `json:"glu,omitempty"`
	Treatments  string `json:"treatments,omitempty"`
	Disposition string `json:"disposition,omitempty"`
	Notes       string `json:"notes,omitempty"`
	AidStation  string `json:"aid_station,omitempty"`
}

func (self *Encounter) RecordId() Id {
	return self.Id
}


type Observation struct {
	Id         Id        `json:"id"`
	Time       ClockTime `json:"time,omitempty"`
	Bib        string    `json:"bib,omitempty"`
	Location   string    `json:"location,omitempty"`
	ReporterId *Id       `json:"reporter,omitempty"`
	CategoryId *Id       `json:"category,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

func (self *Observation) RecordId() Id {
	return self.Id
}


type Participant struct {
	Id        Id     `json:"id"`
	Bib       string `json:"bib,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Age       int    `json:"age,omitempty"`
	Sex       string `json:"sex,omitempty"`
}

func (self *Participant) RecordId() Id {
	return self.Id
}


// lookup rows. these back select options and are reloaded whole when the
// backend announces a change.

type Agency struct {
	Id          Id     `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

func (self *Agency) RecordId() Id {
	return self.Id
}


type Assignment struct {
	Id          Id     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

func (self *Assignment) RecordId() Id {
	return self.Id
}


type ObservationCategory struct {
	Id          Id     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

func (self *ObservationCategory) RecordId() Id {
	return self.Id
}
