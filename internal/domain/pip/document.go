package pip

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultDateLayout = "January 2, 2006"

type DocumentOptions struct {
	DateLayout string
	Language   language.Tag
	Alerts     AlertOptions
}

type Document struct {
	Fields map[string]string `json:"fields"`
	Keys   []string          `json:"keys"`
}

func (d *Document) set(key, value string) {
	if _, ok := d.Fields[key]; !ok {
		d.Keys = append(d.Keys, key)
	}
	d.Fields[key] = value
}

func (d Document) Get(key string) string {
	return d.Fields[key]
}

// Project flattens a snapshot and its assessment at asOf. Check-ins and
// reviews dated after asOf are left out, as in Evaluate. Dates use the
// configured layout and are not localized; the language only drives label
// casing.
func Project(snap Snapshot, asOf time.Time, opts DocumentOptions) Document {
	layout := opts.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}
	tag := opts.Language
	if tag == language.Und {
		tag = language.English
	}
	title := cases.Title(tag)
	label := func(s string) string {
		return title.String(strings.ReplaceAll(s, "_", " "))
	}
	date := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(layout)
	}

	doc := Document{Fields: map[string]string{}}
	p := snap.PIP
	doc.set("pip.id", p.ID)
	doc.set("pip.employeeId", p.EmployeeID)
	doc.set("pip.managerId", p.ManagerID)
	doc.set("pip.status", label(string(p.Status)))
	doc.set("pip.startDate", date(p.StartDate))
	doc.set("pip.endDate", date(p.EndDate))
	doc.set("pip.day30ReviewDate", date(MilestoneDate(p, Phase30)))
	doc.set("pip.day60ReviewDate", date(MilestoneDate(p, Phase60)))
	doc.set("pip.day90ReviewDate", date(MilestoneDate(p, Phase90)))
	doc.set("pip.reasonForPip", p.ReasonForPIP)
	doc.set("pip.consequences", p.Consequences)
	doc.set("pip.supportProvided", p.SupportProvided)
	doc.set("pip.outcome", p.Outcome)
	doc.set("pip.employeeAcknowledged", yesNo(p.EmployeeAcknowledged))
	if p.AcknowledgedAt != nil {
		doc.set("pip.acknowledgedAt", date(*p.AcknowledgedAt))
	}

	expectations := append([]Expectation(nil), snap.Expectations...)
	sort.SliceStable(expectations, func(i, j int) bool {
		if expectations[i].Phase.Day() != expectations[j].Phase.Day() {
			return expectations[i].Phase.Day() < expectations[j].Phase.Day()
		}
		return expectations[i].OrderIndex < expectations[j].OrderIndex
	})
	doc.set("expectations.count", strconv.Itoa(len(expectations)))
	for i, e := range expectations {
		prefix := fmt.Sprintf("expectations.%d.", i)
		doc.set(prefix+"phase", e.Phase.Label())
		doc.set(prefix+"category", label(e.Category))
		doc.set(prefix+"expectation", e.Expectation)
		doc.set(prefix+"successCriteria", e.SuccessCriteria)
		doc.set(prefix+"status", label(string(e.Status)))
		doc.set(prefix+"progress", strconv.Itoa(e.ProgressPercentage)+"%")
	}

	checkIns := checkInsAsOf(snap.CheckIns, asOf)
	sort.SliceStable(checkIns, func(i, j int) bool {
		return checkIns[i].CheckInDate.Before(checkIns[j].CheckInDate)
	})
	doc.set("checkins.count", strconv.Itoa(len(checkIns)))
	for i, ci := range checkIns {
		prefix := fmt.Sprintf("checkins.%d.", i)
		doc.set(prefix+"date", date(ci.CheckInDate))
		doc.set(prefix+"status", label(string(ci.OverallStatus)))
		doc.set(prefix+"summary", ci.ProgressSummary)
		doc.set(prefix+"attendees", strings.Join(ci.Attendees, ", "))
	}

	reviews := reviewsAsOf(snap.MilestoneReviews, asOf)
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].ReviewDate.Before(reviews[j].ReviewDate)
	})
	doc.set("milestones.count", strconv.Itoa(len(reviews)))
	for i, r := range reviews {
		prefix := fmt.Sprintf("milestones.%d.", i)
		doc.set(prefix+"milestone", r.Milestone.Label())
		doc.set(prefix+"date", date(r.ReviewDate))
		doc.set(prefix+"rating", label(r.OverallRating))
		doc.set(prefix+"decision", label(r.Decision))
		doc.set(prefix+"rationale", r.DecisionRationale)
	}

	a := Evaluate(snap, asOf, EvaluateOptions{Alerts: opts.Alerts})
	doc.set("assessment.asOf", date(asOf))
	doc.set("assessment.day", strconv.Itoa(a.Day))
	doc.set("assessment.daysRemaining", strconv.Itoa(a.DaysRemaining))
	doc.set("assessment.phase", a.Phase.Label())
	doc.set("assessment.trajectory", label(string(a.Trajectory)))
	doc.set("assessment.completionRate", strconv.Itoa(a.Summary.CompletionRate)+"%")
	doc.set("assessment.documentationScore", strconv.Itoa(a.Documentation.Score))
	doc.set("assessment.alerts", strconv.Itoa(len(a.Alerts)))
	return doc
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
