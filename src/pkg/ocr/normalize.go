package ocr

import "strings"

// LineSeparator replaces line breaks in normalized text, keeping one card on one line.
const LineSeparator = "\t"

/*
NormalizeText turns raw OCR output into the key used for deduplication.

Every line is trimmed, blank lines (including the trailing ones and the form
feed Tesseract appends) are dropped, and what is left is joined with
LineSeparator. Normalizing an already normalized string returns it unchanged.

Example:
	"  hej \n\nhej\n\f" -> "hej\thej"
*/
func NormalizeText(raw string) string {
	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")

	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, LineSeparator)
}
