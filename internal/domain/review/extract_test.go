package review

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const structuredReview = `Name: Jordan Lee
Title: Senior Analyst
Department: Finance
Email: jordan.lee@example.com

Summary:
Jordan's work is below expectations this year and often missed deadlines.

Strengths:
- Strong rapport with clients
- Ok
Areas for Improvement:
- Timeliness of monthly close reporting
• Accuracy of reconciliations
Achievements:
1. Migrated the ledger to the new platform
Manager Comments: more coming
- This bullet belongs to no section
Challenges
* Staffing shortages during Q3
`

func TestExtractFieldsFromLabels(t *testing.T) {
	got := extractFields(structuredReview)
	want := fields{
		Name:       "Jordan Lee",
		Title:      "Senior Analyst",
		Department: "Finance",
		Email:      "jordan.lee@example.com",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractFieldsNameFallback(t *testing.T) {
	got := extractFields("Annual review\nMaria Lopez Garcia\nShe handled the migration.")
	if got.Name != "Maria Lopez Garcia" {
		t.Fatalf("expected capitalised run as name, got %q", got.Name)
	}
	if got.Title != NotSpecified || got.Department != NotSpecified || got.Email != "" {
		t.Fatalf("expected defaults for missing labels, got %+v", got)
	}

	got = extractFields("line one\nline two\nline three\nJohn Smith appears too late")
	if got.Name != UnknownEmployee {
		t.Fatalf("expected %q, got %q", UnknownEmployee, got.Name)
	}
}

func TestExtractSections(t *testing.T) {
	got := extractSections(structuredReview)
	want := sections{
		Strengths:    []string{"Strong rapport with clients"},
		Improvements: []string{"Timeliness of monthly close reporting", "Accuracy of reconciliations"},
		Achievements: []string{"Migrated the ledger to the new platform"},
		Challenges:   []string{"Staffing shortages during Q3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSectionsMarkdownHeaders(t *testing.T) {
	text := "## Key Strengths\n- Mentors junior engineers weekly\n**Development Areas:**\n- Delegation on larger projects\n"
	got := extractSections(text)
	if len(got.Strengths) != 1 || len(got.Improvements) != 1 {
		t.Fatalf("expected one strength and one improvement, got %+v", got)
	}
}

func TestExtractSectionsEmpty(t *testing.T) {
	got := extractSections("")
	if diff := cmp.Diff(sections{}, got); diff != "" {
		t.Fatalf("expected empty sections, got %s", diff)
	}
}
