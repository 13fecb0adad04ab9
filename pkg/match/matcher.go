/*
Package match compiles a skill term set into a longest-match-first scanner.

The matcher is a patricia trie over every matchable surface form. Scanning
walks the text once; at each position that sits on a word boundary it visits
all dictionary terms starting there and keeps the longest one whose end is
also on a boundary. The scan resumes after an accepted match, so shorter
terms contained inside it never surface ("machine learning" wins over
"machine"). Terms go into the trie as literal bytes, there is no pattern
metacharacter handling to escape.

A Matcher is immutable once built and safe for concurrent FindAll calls.
*/
package match

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Match is one accepted occurrence. Offsets index the scanned form of the
// text (lowercased unless the matcher is case-sensitive).
type Match struct {
	Start   int
	End     int
	Surface string
}

// Matcher scans text for dictionary terms with word-boundary semantics.
type Matcher struct {
	trie          *patricia.Trie
	caseSensitive bool
	maxTermLen    int
	size          int
}

// New compiles the given surface forms. Duplicates collapse, empty strings
// are dropped. With caseSensitive false (the default mode) all terms are
// lowercased and FindAll lowercases the text before scanning.
func New(terms []string, caseSensitive bool) *Matcher {
	m := &Matcher{
		trie:          patricia.NewTrie(),
		caseSensitive: caseSensitive,
	}
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if !caseSensitive {
			term = strings.ToLower(term)
		}
		if term == "" {
			continue
		}
		if m.trie.Insert(patricia.Prefix(term), len(term)) {
			m.size++
			if len(term) > m.maxTermLen {
				m.maxTermLen = len(term)
			}
		}
	}
	if m.size == 0 {
		log.Warn("Pattern set is empty, matcher will return no matches")
	} else {
		log.Debugf("Compiled matcher with %d terms (longest %d bytes)", m.size, m.maxTermLen)
	}
	return m
}

// Len reports the number of compiled terms.
func (m *Matcher) Len() int { return m.size }

// FindAll returns all non-overlapping matches in left-to-right order,
// longest first at every start position. Empty text or an empty pattern
// set yields nil.
func (m *Matcher) FindAll(text string) []Match {
	if m.size == 0 || text == "" {
		return nil
	}
	scan := text
	if !m.caseSensitive {
		scan = strings.ToLower(text)
	}

	var matches []Match
	i := 0
	for i < len(scan) {
		if !m.boundaryBefore(scan, i) {
			i += runeLen(scan, i)
			continue
		}

		end := i + m.maxTermLen
		if end > len(scan) {
			end = len(scan)
		}
		best := m.longestAt(scan, i, end)
		if best == 0 {
			i += runeLen(scan, i)
			continue
		}

		matches = append(matches, Match{
			Start:   i,
			End:     i + best,
			Surface: scan[i : i+best],
		})
		i += best
	}
	return matches
}

// longestAt visits every term that is a prefix of scan[start:window] and
// returns the byte length of the longest one ending on a word boundary,
// or 0 when none qualifies. The longest-match preference lives here, not
// in any engine alternation order.
func (m *Matcher) longestAt(scan string, start, window int) int {
	best := 0
	_ = m.trie.VisitPrefixes(patricia.Prefix(scan[start:window]), func(p patricia.Prefix, item patricia.Item) error {
		length, ok := item.(int)
		if !ok {
			length = len(p)
		}
		if length <= best {
			return nil
		}
		if m.boundaryAfter(scan, start+length) {
			best = length
		}
		return nil
	})
	return best
}

// boundaryBefore reports whether position i can start a match:
// start of text, or preceded by a non-word rune.
func (m *Matcher) boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

// boundaryAfter reports whether a match may end at position i:
// end of text, or followed by a non-word rune.
func (m *Matcher) boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

// isWordRune mirrors regex \w: letters, digits, underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func runeLen(s string, i int) int {
	_, n := utf8.DecodeRuneInString(s[i:])
	if n == 0 {
		return 1
	}
	return n
}
