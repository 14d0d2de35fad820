package indexdetect

import (
	"strconv"
	"strings"

	"github.com/Gurmittoor/hyperlinklaw/internal/textnorm"
)

// dedupPrefixLen bounds the normalized-text prefix used in the entry
// dedup key; OCR rarely garbles two copies of the same row identically
// past this length.
const dedupPrefixLen = 50

// maxTabNumber matches the linker's accepted tab range.
const maxTabNumber = 999

// extractEntries captures candidate index rows from the numbered/tabbed
// pattern family, keeping the first occurrence per (tab, text-prefix)
// and at most MaxEntries rows in page order.
func (d *Detector) extractEntries(lines []string) []EntryCandidate {
	var entries []EntryCandidate
	seen := make(map[string]struct{})

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isSkipLine(trimmed) {
			continue
		}

		tabNumber, text := splitEntryLine(trimmed)
		if tabNumber == "" {
			continue
		}
		if n, err := strconv.Atoi(tabNumber); err != nil || n < 1 || n > maxTabNumber {
			continue
		}

		entry := EntryCandidate{TabNumber: tabNumber}
		if m := entryPageRefRx.FindStringSubmatch(text); m != nil {
			if ref, err := strconv.Atoi(m[1]); err == nil {
				entry.PageRef = &ref
				text = strings.TrimSpace(text[:len(text)-len(m[0])])
			}
		}
		text = strings.Trim(text, " .-\t")
		if len(text) <= d.scoring.MinEntryTextLen {
			continue
		}
		entry.Text = text

		if m := monthDateRx.FindString(text); m != "" {
			entry.DateFound = m
		} else if m := numDateRx.FindString(text); m != "" {
			entry.DateFound = m
		}

		normalized := textnorm.Normalize(text)
		prefix := normalized
		if len(prefix) > dedupPrefixLen {
			prefix = prefix[:dedupPrefixLen]
		}
		key := tabNumber + "|" + prefix
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		entries = append(entries, entry)
		if len(entries) >= d.scoring.MaxEntries {
			break
		}
	}
	return entries
}

// splitEntryLine pulls the tab/item number and the remainder text out of
// an index row. Returns an empty tab number when the line is not part of
// the numbered/tabbed family.
func splitEntryLine(line string) (tabNumber, text string) {
	if loc := tabRx.FindStringSubmatchIndex(line); loc != nil {
		num := line[loc[2]:loc[3]]
		rest := strings.TrimSpace(line[loc[1]:])
		rest = strings.TrimLeft(rest, ":.-) \t")
		return num, rest
	}
	if m := numberedLineRx.FindStringSubmatch(line); m != nil {
		return m[1], strings.TrimSpace(m[2])
	}
	return "", ""
}
