package imcodec

// toCamel converts snake_case descriptor field names to the exported
// CamelCase form used for struct field matching.
func toCamel(s string) string {
	if s == "" {
		return s
	}
	out := make([]byte, 0, len(s))
	upperNext := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			upperNext = true
			continue
		}
		if upperNext {
			if c >= 'a' && c <= 'z' {
				c = c - 'a' + 'A'
			}
			upperNext = false
		}
		out = append(out, c)
	}
	return string(out)
}
