package review

import (
	"regexp"
	"strings"
)

var (
	nameLabel       = regexp.MustCompile(`(?im)^\s*(?:employee\s+)?name\s*:\s*(.+?)\s*$`)
	titleLabel      = regexp.MustCompile(`(?im)^\s*(?:job\s+)?(?:title|position|role)\s*:\s*(.+?)\s*$`)
	departmentLabel = regexp.MustCompile(`(?im)^\s*(?:department|dept\.?|team)\s*:\s*(.+?)\s*$`)
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	capitalizedRun  = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3}\b`)

	bulletLine  = regexp.MustCompile(`^\s*(?:[-•]\s*|\*\s+|\d+[.)]\s+)(.+)$`)
	labelHeader = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 /&'()\-]{0,60}:`)
)

const (
	nameScanLines   = 3
	minBulletLength = 10
	maxHeaderLength = 60
)

type section int

const (
	sectionNone section = iota
	sectionStrengths
	sectionImprovements
	sectionAchievements
	sectionChallenges
)

var sectionHeaders = []struct {
	section section
	pattern *regexp.Regexp
}{
	{sectionStrengths, regexp.MustCompile(`(?i)^(?:key\s+|core\s+)?strengths?\b`)},
	{sectionImprovements, regexp.MustCompile(`(?i)^(?:areas?\s+(?:for|of)\s+(?:improvement|development|growth)|development\s+areas?|improvement\s+areas?|opportunities\s+for\s+improvement|weakness(?:es)?)\b`)},
	{sectionAchievements, regexp.MustCompile(`(?i)^(?:key\s+|notable\s+)?(?:achievements?|accomplishments?)\b`)},
	{sectionChallenges, regexp.MustCompile(`(?i)^(?:key\s+)?challenges?\b`)},
}

type fields struct {
	Name       string
	Title      string
	Department string
	Email      string
}

type sections struct {
	Strengths    []string
	Improvements []string
	Achievements []string
	Challenges   []string
}

func extractFields(text string) fields {
	f := fields{
		Name:       firstGroup(nameLabel, text),
		Title:      firstGroup(titleLabel, text),
		Department: firstGroup(departmentLabel, text),
		Email:      emailPattern.FindString(text),
	}
	if f.Name == "" {
		f.Name = guessName(text)
	}
	if f.Title == "" {
		f.Title = NotSpecified
	}
	if f.Department == "" {
		f.Department = NotSpecified
	}
	return f
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func guessName(text string) string {
	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines) && i < nameScanLines; i++ {
		if m := capitalizedRun.FindString(lines[i]); m != "" {
			return m
		}
	}
	return UnknownEmployee
}

func extractSections(text string) sections {
	var out sections
	current := sectionNone

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := bulletLine.FindStringSubmatch(line); m != nil {
			item := strings.TrimSpace(m[1])
			if current == sectionNone || len(item) < minBulletLength {
				continue
			}
			out.add(current, item)
			continue
		}

		header := strings.TrimSpace(strings.Trim(line, "#* "))
		if next, ok := matchSection(header); ok {
			current = next
			continue
		}
		if labelHeader.MatchString(header) {
			current = sectionNone
		}
	}
	return out
}

func matchSection(header string) (section, bool) {
	if len(header) > maxHeaderLength {
		return sectionNone, false
	}
	for _, h := range sectionHeaders {
		if h.pattern.MatchString(header) {
			return h.section, true
		}
	}
	return sectionNone, false
}

func (s *sections) add(sec section, item string) {
	switch sec {
	case sectionStrengths:
		s.Strengths = append(s.Strengths, item)
	case sectionImprovements:
		s.Improvements = append(s.Improvements, item)
	case sectionAchievements:
		s.Achievements = append(s.Achievements, item)
	case sectionChallenges:
		s.Challenges = append(s.Challenges, item)
	}
}
