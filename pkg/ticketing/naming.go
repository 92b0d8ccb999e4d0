package ticketing

import (
	"strings"
	"unicode"
)

// channelPrefix is the prefix every ticket channel name carries.
const channelPrefix = "ticket-"

// maxChannelName is the longest channel name the platform accepts.
const maxChannelName = 100

// Slugify lowercases s and replaces each run of whitespace with a single hyphen.
func Slugify(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), unicode.IsSpace), "-")
}

// claimSuffix normalizes a username into the suffix appended to claimed channels.
func claimSuffix(username string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(username) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		case r == '-', r == '.', unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "staff"
	}
	return b.String()
}

// claimedName appends the claim suffix to a channel name. The name is shortened rather than
// the suffix so that unclaimedName can find it again.
func claimedName(name, suffix string) string {
	tail := "-" + suffix
	if keep := maxChannelName - len([]rune(tail)); keep > 0 {
		if r := []rune(name); len(r) > keep {
			name = string(r[:keep])
		}
	}
	return truncateName(name + tail)
}

// unclaimedName removes the claim suffix from a channel name. When the name no longer ends in
// the stored suffix the last hyphen-delimited segment is stripped instead.
func unclaimedName(name, suffix string) string {
	if suffix != "" && strings.HasSuffix(name, "-"+suffix) {
		return strings.TrimSuffix(name, "-"+suffix)
	}
	if i := strings.LastIndex(name, "-"); i > 0 {
		return name[:i]
	}
	return name
}

// renamedName builds a ticket channel name from free text.
func renamedName(newName string) string {
	slug := strings.TrimPrefix(Slugify(newName), channelPrefix)
	if slug == "" {
		return ""
	}
	return truncateName(channelPrefix + slug)
}

func truncateName(name string) string {
	r := []rune(name)
	if len(r) > maxChannelName {
		return string(r[:maxChannelName])
	}
	return name
}
