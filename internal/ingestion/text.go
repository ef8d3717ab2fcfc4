// Package ingestion prepares local files for upload with an application.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// MaxCoverLetterLength is the longest cover letter accepted, in runes.
	MaxCoverLetterLength = 10000
	// MaxCVSize is the largest CV file accepted, in bytes.
	MaxCVSize = 10 << 20
)

// CVExtensions are the accepted CV file types.
var CVExtensions = []string{".pdf", ".doc", ".docx"}

var (
	spaceRunRe     = regexp.MustCompile(`[ \t\f\v]+`)
	blankLineRunRe = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes line endings and inner spacing and collapses runs of blank
// lines to one. Paragraph breaks and bullet markers are kept.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := strings.Join(lines, "\n")
	result = blankLineRunRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine trims a line and collapses inner whitespace. Bullet indentation survives.
func cleanLine(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.TrimSpace(trimmed) == "" {
		return ""
	}

	content := spaceRunRe.ReplaceAllString(strings.TrimSpace(trimmed), " ")
	if isBulletLine(trimmed) {
		if indent := len(line) - len(trimmed); indent > 0 {
			return strings.Repeat(" ", indent) + content
		}
	}
	return content
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ")
}

// CoverLetter cleans a cover letter and enforces MaxCoverLetterLength.
func CoverLetter(text string) (string, error) {
	cleaned := CleanText(text)
	if n := len([]rune(cleaned)); n > MaxCoverLetterLength {
		return "", fmt.Errorf("cover letter is too long: %d characters (max %d)", n, MaxCoverLetterLength)
	}
	return cleaned, nil
}

// ReadCoverLetter reads a cover letter from a text file.
func ReadCoverLetter(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return CoverLetter(string(content))
}

// CheckCV verifies that path is a readable CV of an accepted type and size.
func CheckCV(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("CV not found: %s", path)
		}
		return fmt.Errorf("failed to read CV: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("CV path is a directory: %s", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("CV is empty: %s", path)
	}
	if info.Size() > MaxCVSize {
		return fmt.Errorf("CV is too large: %d bytes (max %d)", info.Size(), MaxCVSize)
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range CVExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("unsupported CV type %q (accepted: %s)", ext, strings.Join(CVExtensions, ", "))
}
