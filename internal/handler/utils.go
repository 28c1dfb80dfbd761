package handler

import (
	"regexp"
	"strconv"
	"strings"
)

var listSeparatorRegex = regexp.MustCompile(`\s*,\s*`)

// normalizeList splits a comma-separated argument list. Semicolons and
// the full-width comma are accepted as separators; surrounding
// whitespace is trimmed and empty items dropped.
func normalizeList(s string) []string {
	s = strings.NewReplacer("，", ",", ";", ",").Replace(s)
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseSubscribeArgs splits "/subscribe kw1,kw2 channel1,channel2"
// arguments into keyword and channel lists. The first whitespace-free
// field is the keyword list, everything after it the channel list.
func parseSubscribeArgs(args string) (keywords, channels []string, ok bool) {
	args = listSeparatorRegex.ReplaceAllString(strings.TrimSpace(args), ",")
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return nil, nil, false
	}

	keywords = normalizeList(fields[0])
	channels = normalizeList(strings.Join(fields[1:], " "))
	if len(keywords) == 0 || len(channels) == 0 {
		return nil, nil, false
	}
	return keywords, channels, true
}

// parseIDList parses a comma-separated id list, dropping items that are
// not positive integers.
func parseIDList(args string) []uint {
	var ids []uint
	for _, item := range normalizeList(args) {
		n, err := strconv.ParseUint(item, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(n))
	}
	return ids
}
