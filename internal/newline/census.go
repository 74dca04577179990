package newline

// Convention labels the dominant line-ending style of a text.
type Convention string

const (
	ConventionNone  Convention = "none"
	ConventionLF    Convention = "lf"
	ConventionCRLF  Convention = "crlf"
	ConventionCR    Convention = "cr"
	ConventionMixed Convention = "mixed"
)

// CensusResult counts line-ending characters in a text.
type CensusResult struct {
	CR         int        `json:"cr"`
	LF         int        `json:"lf"`
	CRLF       int        `json:"crlf"`
	LoneCR     int        `json:"lone_cr"`
	LoneLF     int        `json:"lone_lf"`
	Convention Convention `json:"convention"`
}

// Census counts CR, LF, CRLF pairs and lone CR/LF in s.
func Census(s string) CensusResult {
	var c CensusResult
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			c.CR++
			if i+1 < len(s) && s[i+1] == '\n' {
				c.CRLF++
			} else {
				c.LoneCR++
			}
		case '\n':
			c.LF++
			if i == 0 || s[i-1] != '\r' {
				c.LoneLF++
			}
		}
	}

	styles := 0
	if c.CRLF > 0 {
		styles++
		c.Convention = ConventionCRLF
	}
	if c.LoneLF > 0 {
		styles++
		c.Convention = ConventionLF
	}
	if c.LoneCR > 0 {
		styles++
		c.Convention = ConventionCR
	}
	switch styles {
	case 0:
		c.Convention = ConventionNone
	case 1:
	default:
		c.Convention = ConventionMixed
	}
	return c
}
