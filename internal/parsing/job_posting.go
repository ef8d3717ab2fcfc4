// Package parsing turns free-text chat instructions into structured job posting drafts.
//
// Extraction is a best-effort heuristic run as a fixed pipeline of pure steps:
// strip command, split description, extract title, extract location, extract salary,
// default description. The order and fallbacks are part of the observable behaviour.
package parsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/hirechat/internal/types"
)

var (
	// creationVerbs must appear (as substrings) for a message to count as create-intent.
	creationVerbs = []string{"create ", "post ", "add "}

	// politePrefixes are removed in this order before the verb.
	politePrefixes = []string{"please", "can you", "could you"}

	// verbPrefixRe matches the leading creation verb of the working text.
	verbPrefixRe = regexp.MustCompile(`(?i)^(create|post|add|new)\b\s*`)

	// descriptionRe locates the description keyword anywhere in the text.
	descriptionRe = regexp.MustCompile(`(?i)description`)

	// titleBoundaryRe ends the title at the first location/detail preposition.
	titleBoundaryRe = regexp.MustCompile(`(?i)\b(based in|in|at|for|with)\b`)

	// determinerRe strips a leading article from the candidate title.
	determinerRe = regexp.MustCompile(`(?i)^(a|an|the)\s+`)

	// salaryRangeRe matches "£50k-70k", "£50,000 to £70,000", "50000–70000" and similar.
	salaryRangeRe = regexp.MustCompile(`(?i)(£?)(\d+(?:,\d+)*)(k|000)?\s*(?:-|–|to)\s*(£?)(\d+(?:,\d+)*)(k|000)?`)

	// knownLocations is a closed vocabulary, scanned in priority order.
	knownLocations = []string{"london", "remote", "hybrid", "manchester", "edinburgh"}
)

// HasCreationVerb reports whether text expresses intent to create a job posting.
func HasCreationVerb(text string) bool {
	lower := strings.ToLower(text)
	for _, verb := range creationVerbs {
		if strings.Contains(lower, verb) {
			return true
		}
	}
	return strings.HasPrefix(strings.TrimSpace(lower), "new ")
}

// ExtractJobPosting converts a free-text instruction into a draft.
// It returns a zero draft when the text has no creation verb or no usable title;
// callers must check Valid before submitting.
func ExtractJobPosting(text string) types.JobPostingDraft {
	if !HasCreationVerb(text) {
		return types.JobPostingDraft{}
	}

	working := stripCommand(text)
	before, description := splitDescription(working)

	title := extractTitle(before)
	if title == "" {
		return types.JobPostingDraft{}
	}

	salaryMin, salaryMax := extractSalary(working)
	if description == "" {
		description = defaultDescription(title)
	}

	return types.JobPostingDraft{
		Title:       title,
		Description: description,
		Location:    extractLocation(working),
		SalaryMin:   salaryMin,
		SalaryMax:   salaryMax,
	}
}

// ParseJobPosting is ExtractJobPosting with the failure reported as an *ExtractionError.
func ParseJobPosting(text string) (types.JobPostingDraft, error) {
	if !HasCreationVerb(text) {
		return types.JobPostingDraft{}, &ExtractionError{Input: text, Reason: "no creation verb"}
	}
	draft := ExtractJobPosting(text)
	if !draft.Valid() {
		return types.JobPostingDraft{}, &ExtractionError{Input: text, Reason: "no job title"}
	}
	return draft, nil
}

// stripCommand removes polite prefixes and the leading creation verb.
func stripCommand(text string) string {
	working := strings.TrimSpace(text)
	for stripped := true; stripped; {
		stripped = false
		for _, prefix := range politePrefixes {
			if hasWordPrefix(working, prefix) {
				working = strings.TrimLeft(working[len(prefix):], " ,")
				stripped = true
			}
		}
	}
	working = verbPrefixRe.ReplaceAllString(working, "")
	return strings.TrimSpace(working)
}

// hasWordPrefix reports whether s starts with prefix (case-insensitive) followed by
// a non-letter or the end of s.
func hasWordPrefix(s, prefix string) bool {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return false
	}
	if len(s) == len(prefix) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(s[len(prefix):])
	return !unicode.IsLetter(next)
}

// splitDescription separates the text before the "description" keyword from the
// description itself. The description is empty when the keyword is absent.
func splitDescription(working string) (before, description string) {
	loc := descriptionRe.FindStringIndex(working)
	if loc == nil {
		return working, ""
	}

	before = working[:loc[0]]
	description = strings.TrimSpace(working[loc[1]:])
	description = strings.TrimLeft(description, ":-")
	return before, strings.TrimSpace(description)
}

// extractTitle cuts the title at the first boundary word and title-cases it.
func extractTitle(before string) string {
	candidate := before
	if loc := titleBoundaryRe.FindStringIndex(candidate); loc != nil {
		candidate = candidate[:loc[0]]
	}
	candidate = determinerRe.ReplaceAllString(strings.TrimSpace(candidate), "")

	words := make([]string, 0, 4)
	for _, token := range strings.Fields(candidate) {
		token = cleanToken(token)
		if token == "" {
			continue
		}
		words = append(words, titleCase(token))
	}
	return strings.Join(words, " ")
}

// cleanToken drops punctuation that cannot be part of a job title. Tokens without
// any letter or digit are discarded.
func cleanToken(token string) string {
	var sb strings.Builder
	hasAlnum := false
	for _, r := range token {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			hasAlnum = true
			sb.WriteRune(r)
		case strings.ContainsRune("+#/&.-", r):
			sb.WriteRune(r)
		}
	}
	if !hasAlnum {
		return ""
	}
	return strings.Trim(sb.String(), ".-/&")
}

// titleCase upper-cases the first letter and lower-cases the rest.
func titleCase(word string) string {
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// extractLocation returns the first known location found, by priority, capitalised.
func extractLocation(working string) string {
	lower := strings.ToLower(working)
	for _, location := range knownLocations {
		if strings.Contains(lower, location) {
			return titleCase(location)
		}
	}
	return ""
}

// extractSalary parses the first salary range in the text, falling back to the
// default pair. The pair is returned in text order, never swapped.
func extractSalary(working string) (int, int) {
	m := salaryRangeRe.FindStringSubmatch(strings.ToLower(working))
	if m == nil {
		return types.DefaultSalaryMin, types.DefaultSalaryMax
	}

	minValue, err := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
	if err != nil {
		return types.DefaultSalaryMin, types.DefaultSalaryMax
	}
	maxValue, err := strconv.Atoi(strings.ReplaceAll(m[5], ",", ""))
	if err != nil {
		return types.DefaultSalaryMin, types.DefaultSalaryMax
	}

	minSuffix, maxSuffix := m[3], m[6]
	// "£65-85k": a bare side below 1000 shares the other side's k.
	if minSuffix == "" && maxSuffix == "k" && minValue < 1000 {
		minSuffix = "k"
	}
	if maxSuffix == "" && minSuffix == "k" && maxValue < 1000 {
		maxSuffix = "k"
	}

	return applySuffix(minValue, minSuffix), applySuffix(maxValue, maxSuffix)
}

func applySuffix(value int, suffix string) int {
	if suffix != "" {
		return value * 1000
	}
	return value
}

// defaultDescription synthesises a description when none was given.
func defaultDescription(title string) string {
	if title == "" {
		title = "talented professional"
	}
	return fmt.Sprintf("Looking for a %s.", title)
}
