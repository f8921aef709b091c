package pip

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

func RenderLetter(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	heading := func(text string) {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, tr(text))
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
	}
	line := func(label, value string) {
		if value == "" {
			return
		}
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s: %s", label, value)), "", "L", false)
	}
	para := func(value string) {
		if value == "" {
			return
		}
		pdf.MultiCell(0, 6, tr(value), "", "L", false)
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Performance Improvement Plan")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	line("Employee", doc.Get("pip.employeeId"))
	line("Manager", doc.Get("pip.managerId"))
	line("Status", doc.Get("pip.status"))
	line("Plan period", doc.Get("pip.startDate")+" to "+doc.Get("pip.endDate"))
	line("30-day review", doc.Get("pip.day30ReviewDate"))
	line("60-day review", doc.Get("pip.day60ReviewDate"))
	line("90-day review", doc.Get("pip.day90ReviewDate"))
	line("Acknowledged", doc.Get("pip.employeeAcknowledged"))

	heading("Reason for plan")
	para(doc.Get("pip.reasonForPip"))
	heading("Support provided")
	para(doc.Get("pip.supportProvided"))
	heading("Consequences")
	para(doc.Get("pip.consequences"))

	heading("Expectations")
	for i := range count(doc, "expectations.count") {
		prefix := fmt.Sprintf("expectations.%d.", i)
		para(fmt.Sprintf("%d. [%s] %s (%s, %s)", i+1, doc.Get(prefix+"phase"), doc.Get(prefix+"expectation"),
			doc.Get(prefix+"status"), doc.Get(prefix+"progress")))
		line("   Success criteria", doc.Get(prefix+"successCriteria"))
	}

	heading("Check-ins")
	for i := range count(doc, "checkins.count") {
		prefix := fmt.Sprintf("checkins.%d.", i)
		para(fmt.Sprintf("%s - %s: %s", doc.Get(prefix+"date"), doc.Get(prefix+"status"), doc.Get(prefix+"summary")))
	}

	heading("Milestone reviews")
	for i := range count(doc, "milestones.count") {
		prefix := fmt.Sprintf("milestones.%d.", i)
		para(fmt.Sprintf("%s review on %s: %s, %s", doc.Get(prefix+"milestone"), doc.Get(prefix+"date"),
			doc.Get(prefix+"rating"), doc.Get(prefix+"decision")))
		line("   Rationale", doc.Get(prefix+"rationale"))
	}

	heading("Assessment")
	line("As of", doc.Get("assessment.asOf"))
	line("Plan day", doc.Get("assessment.day"))
	line("Trajectory", doc.Get("assessment.trajectory"))
	line("Completion rate", doc.Get("assessment.completionRate"))
	line("Documentation score", doc.Get("assessment.documentationScore"))

	return pdf.Output(w)
}

func count(doc Document, key string) int {
	n, err := strconv.Atoi(doc.Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
