package identity

import (
	"strings"
	"unicode"
)

// PrintCode identifies one printing: a set code followed by a number within the set.
type PrintCode struct {
	// SetCode includes the region letters, e.g. "LOB-EN".
	SetCode string
	// Number is the position inside the set, e.g. "001".
	Number string
}

func (p PrintCode) String() string {
	return p.SetCode + p.Number
}

// ParsePrintCode splits a print code such as "LOB-EN001" into its set code and
// number. The number starts at the first digit after the last dash. Set codes
// without region letters keep their dash ("SDK-001" is set "SDK-", number "001").
func ParsePrintCode(code string) (PrintCode, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	dash := strings.LastIndexByte(code, '-')
	if dash <= 0 || dash == len(code)-1 {
		return PrintCode{}, false
	}

	rest := code[dash+1:]
	split := strings.IndexFunc(rest, unicode.IsDigit)
	if split < 0 {
		return PrintCode{}, false
	}
	for _, r := range rest[:split] {
		if !unicode.IsLetter(r) {
			return PrintCode{}, false
		}
	}

	return PrintCode{
		SetCode: code[:dash+1+split],
		Number:  rest[split:],
	}, true
}
