package domain

import "strings"

// NormalizeCaption cleans a raw photo caption for display:
//   - a leading line consisting only of flag emoji is merged into the line
//     that follows it (Instagram-era captions often put the country flags on
//     a line of their own)
//   - hashtag tokens are stripped
//   - whitespace runs are collapsed and empty lines dropped
//
// It returns "" when nothing displayable remains.
func NormalizeCaption(raw string) string {
	lines := strings.Split(raw, "\n")

	if len(lines) > 1 && isFlagLine(lines[0]) {
		merged := strings.TrimSpace(lines[0]) + " " + strings.TrimSpace(lines[1])
		lines = append([]string{merged}, lines[2:]...)
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		kept := fields[:0]
		for _, f := range fields {
			if strings.HasPrefix(f, "#") {
				continue
			}
			kept = append(kept, f)
		}
		if len(kept) == 0 {
			continue
		}
		out = append(out, strings.Join(kept, " "))
	}
	return strings.Join(out, "\n")
}

// isFlagLine reports whether the line contains flag emoji and nothing else.
// Flag emoji are pairs of regional indicator symbols (U+1F1E6..U+1F1FF).
func isFlagLine(line string) bool {
	seen := false
	for _, r := range line {
		switch {
		case r == ' ' || r == '\t':
			continue
		case r >= 0x1F1E6 && r <= 0x1F1FF:
			seen = true
		default:
			return false
		}
	}
	return seen
}
