package scpi

import "strconv"

// ParamChannelList reads a "(@...)" channel-list parameter per
// SCPI-99 §8.3.2: a parenthesised, '@'-prefixed, comma-separated list
// of channel-spec entries, each either a single address or a
// colon-separated range, with '!' separating dimensions within one
// address (e.g. "(@1,3:5,2!1:2!4)" is three entries: channel 1,
// channels 3 through 5, and the two-dimensional range (2,1) through
// (2,4)).
func (c *Context) ParamChannelList(mandatory bool) ([]ChannelListEntry, bool) {
	tok, ok := c.nextParameter(mandatory)
	if !ok {
		return nil, false
	}
	if tok.Kind != TokenProgramExpression {
		c.ErrorPush(&Error{Code: ErrDataTypeError, Info: "Data type error"})
		return nil, false
	}

	body := tok.Data
	if len(body) < 2 || body[0] != '(' || body[len(body)-1] != ')' {
		c.ErrorPush(&Error{Code: ErrInvalidStringData, Info: "Invalid string data"})
		return nil, false
	}
	inner := body[1 : len(body)-1]
	if len(inner) == 0 || inner[0] != '@' {
		c.ErrorPush(&Error{Code: ErrInvalidStringData, Info: "Invalid string data"})
		return nil, false
	}
	inner = inner[1:]

	var entries []ChannelListEntry
	for _, part := range splitBytes(inner, ',') {
		entry, ok := parseChannelEntry(part)
		if !ok {
			c.ErrorPush(&Error{Code: ErrInvalidStringData, Info: "Invalid channel spec"})
			return nil, false
		}
		entries = append(entries, entry)
	}
	return entries, true
}

func parseChannelEntry(spec []byte) (ChannelListEntry, bool) {
	rangeParts := splitBytes(spec, ':')
	switch len(rangeParts) {
	case 1:
		dims, ok := parseDimensionValues(rangeParts[0])
		if !ok {
			return ChannelListEntry{}, false
		}
		return ChannelListEntry{From: dims, To: dims, Dimensions: len(dims)}, true
	case 2:
		from, ok := parseDimensionValues(rangeParts[0])
		if !ok {
			return ChannelListEntry{}, false
		}
		to, ok := parseDimensionValues(rangeParts[1])
		if !ok || len(to) != len(from) {
			return ChannelListEntry{}, false
		}
		return ChannelListEntry{IsRange: true, From: from, To: to, Dimensions: len(from)}, true
	default:
		return ChannelListEntry{}, false
	}
}

func parseDimensionValues(spec []byte) ([]int32, bool) {
	parts := splitBytes(spec, '!')
	values := make([]int32, 0, len(parts))
	for _, p := range parts {
		if len(p) == 0 {
			return nil, false
		}
		v, err := strconv.ParseInt(string(p), 10, 32)
		if err != nil {
			return nil, false
		}
		values = append(values, int32(v))
	}
	if len(values) == 0 {
		return nil, false
	}
	return values, true
}

func splitBytes(data []byte, sep byte) [][]byte {
	var parts [][]byte
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] == sep {
			parts = append(parts, data[start:i])
			start = i + 1
		}
	}
	parts = append(parts, data[start:])
	return parts
}
