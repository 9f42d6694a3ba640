package df

import (
	"regexp"
	"strings"
	"sync"
)

// Patterns follow shell fnmatch rules: '*' and '?' also match '/', so
// "/opt/omd/sites/*" covers every mountpoint below that directory.
// A pattern starting with '~' is taken as an anchored-at-start regular expression.
var globCache sync.Map // pattern -> *regexp.Regexp

// MatchGlob reports whether name matches the fnmatch-style pattern.
func MatchGlob(pattern, name string) bool {
	re, err := compileGlob(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(name)
}

func compileGlob(pattern string) (*regexp.Regexp, error) {
	if cached, ok := globCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	var expr string
	if rest, ok := strings.CutPrefix(pattern, "~"); ok {
		expr = "^(?:" + rest + ")"
	} else {
		expr = translateGlob(pattern)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	globCache.Store(pattern, re)
	return re, nil
}

func translateGlob(pattern string) string {
	runes := []rune(pattern)
	var b strings.Builder
	b.WriteString("(?s)^")
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			j := i + 1
			if j < len(runes) && runes[j] == '!' {
				j++
			}
			if j < len(runes) && runes[j] == ']' {
				j++
			}
			for j < len(runes) && runes[j] != ']' {
				j++
			}
			if j >= len(runes) {
				// unterminated class matches a literal '['
				b.WriteString(`\[`)
				continue
			}
			// '[' is literal inside a set, so "[:alpha:]" is not a character class
			class := strings.NewReplacer(`\`, `\\`, "[", `\[`).Replace(string(runes[i+1:j]))
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			} else if strings.HasPrefix(class, "^") {
				class = `\` + class
			}
			b.WriteString("[" + class + "]")
			i = j
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")
	return b.String()
}

// matchAny reports whether name matches at least one of the patterns.
func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if MatchGlob(p, name) {
			return true
		}
	}
	return false
}
