package validators

import "strings"

const minPhoneDigits = 10

// NormalizePhone strips the usual separators: spaces, dashes, dots,
// parentheses and a leading plus sign.
func NormalizePhone(phone string) string {
	r := strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
	return strings.TrimPrefix(r.Replace(strings.TrimSpace(phone)), "+")
}

// IsPhoneValid accepts numbers with at least ten digits once separators
// are removed. An empty phone is valid; the field is optional.
func IsPhoneValid(phone string) bool {
	p := NormalizePhone(phone)
	if p == "" {
		return true
	}
	if len(p) < minPhoneDigits || len(p) > 20 {
		return false
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
