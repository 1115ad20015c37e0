package main

import (
	"fmt"
	"io"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/ndart/console/console"
)


var tierMarkers = map[console.Tier]string{
	console.TierNone:  "  ",
	console.TierWarn:  " !",
	console.TierAlert: "!!",
}


// one rendered table. The reconciler mutates it from the push dispatch
// goroutine while the watch loop renders it, so everything is under the
// mutex. Redraw is a no-op here: the watch loop repaints on its own
// clock.
type termTable[R console.Record] struct {
	mutex  sync.Mutex
	title  string
	format func(record R) string
	rows   []R
	tiers  map[console.Id]console.Tier
}

func newTermTable[R console.Record](title string, format func(record R) string) *termTable[R] {
	return &termTable[R]{
		title:  title,
		format: format,
		tiers:  map[console.Id]console.Tier{},
	}
}

func (self *termTable[R]) Reset(records []R) {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	self.rows = slices.Clone(records)
	self.tiers = map[console.Id]console.Tier{}
}

func (self *termTable[R]) Insert(record R) {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	self.rows = append(self.rows, record)
}

func (self *termTable[R]) Replace(record R) {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	for i, row := range self.rows {
		if row.RecordId() == record.RecordId() {
			self.rows[i] = record
			return
		}
	}
}

func (self *termTable[R]) Delete(key console.Id) {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	for i, row := range self.rows {
		if row.RecordId() == key {
			self.rows = slices.Delete(self.rows, i, i+1)
			break
		}
	}
	delete(self.tiers, key)
}

func (self *termTable[R]) Redraw() {
}

func (self *termTable[R]) Decorate(key console.Id, tier console.Tier) {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	self.tiers[key] = tier
}

func (self *termTable[R]) render(w io.Writer) {
	self.mutex.Lock()
	defer self.mutex.Unlock()

	fmt.Fprintf(w, "%s (%d)\n", self.title, len(self.rows))
	for _, row := range self.rows {
		marker := tierMarkers[self.tiers[row.RecordId()]]
		fmt.Fprintf(w, "%s %s\n", marker, self.format(row))
	}
	fmt.Fprintf(w, "\n")
}


type Screen struct {
	sessionJwt *console.SessionJwt

	Events       *termTable[*console.Event]
	Encounters   *termTable[*console.Encounter]
	Observations *termTable[*console.Observation]
	Participants *termTable[*console.Participant]

	Agencies   *console.ViewStore[*console.Agency]
	Categories *console.ViewStore[*console.ObservationCategory]
}

func NewScreen(sessionJwt *console.SessionJwt) *Screen {
	screen := &Screen{
		sessionJwt: sessionJwt,
	}
	screen.Events = newTermTable("events", func(event *console.Event) string {
		return fmt.Sprintf(
			"#%-4d %-5s bib %-6s %-20s notified %-5s arrival %-5s resolved %-5s %s",
			event.EventNum,
			event.TimeIn,
			event.Bib,
			event.Location,
			event.AgencyNotified,
			event.AgencyArrival,
			event.Resolved,
			screen.agencyName(event.AgencyId),
		)
	})
	screen.Encounters = newTermTable("encounters", func(encounter *console.Encounter) string {
		return fmt.Sprintf(
			"%-5s bib %-6s %s %s (%s) out %s",
			encounter.TimeIn,
			encounter.Bib,
			encounter.FirstName,
			encounter.LastName,
			encounter.Disposition,
			encounter.TimeOut,
		)
	})
	screen.Observations = newTermTable("observations", func(observation *console.Observation) string {
		return fmt.Sprintf(
			"%-5s bib %-6s %-20s %s %s",
			observation.Time,
			observation.Bib,
			observation.Location,
			screen.categoryName(observation.CategoryId),
			observation.Notes,
		)
	})
	screen.Participants = newTermTable("participants", func(participant *console.Participant) string {
		return fmt.Sprintf(
			"bib %-6s %s %s",
			participant.Bib,
			participant.FirstName,
			participant.LastName,
		)
	})
	return screen
}

func (self *Screen) agencyName(agencyId *console.Id) string {
	if agencyId == nil || self.Agencies == nil {
		return ""
	}
	agency, ok := self.Agencies.Get(*agencyId)
	if !ok {
		return agencyId.String()
	}
	if agency.DisplayName != "" {
		return agency.DisplayName
	}
	return agency.Name
}

func (self *Screen) categoryName(categoryId *console.Id) string {
	if categoryId == nil || self.Categories == nil {
		return ""
	}
	category, ok := self.Categories.Get(*categoryId)
	if !ok {
		return categoryId.String()
	}
	return category.Name
}

func (self *Screen) Render(w io.Writer) {
	// clear and home
	fmt.Fprintf(w, "\033[H\033[2J")
	fmt.Fprintf(w, "%s / %s\n\n", self.sessionJwt.StationName, self.sessionJwt.UserName)

	self.Events.render(w)
	self.Encounters.render(w)
	self.Observations.render(w)
	self.Participants.render(w)
}
