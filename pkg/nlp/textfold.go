package nlp

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// turkishLower lowercases with Turkish casing rules (I→ı, İ→i).
func turkishLower(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.TurkishCase.ToLower(r)
	}
	return string(runes)
}

// matchLower folds text for case-insensitive comparison: Turkish
// lowercasing with the dotless ı collapsed to plain i afterwards. Under
// this fold ASCII comparands ("hearing", "HEKIM") and Turkish text
// ("HEARING", "HEKİM") land on the same form. Only for matching, never
// for display.
func matchLower(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		r = unicode.TurkishCase.ToLower(r)
		if r == 'ı' {
			r = 'i'
		}
		runes[i] = r
	}
	return string(runes)
}

// titleTurkish re-cases a name to Turkish title case, capitalizing each
// whitespace-delimited word.
func titleTurkish(s string) string {
	return cases.Title(language.Turkish).String(s)
}

// foldedText is the Turkish upper-cased view of a text plus a mapping
// from byte offsets in the folded view back to byte offsets in the
// original. Turkish case mapping is rune to rune, so rune indices line
// up between the two views even when byte widths differ (i→İ).
type foldedText struct {
	Upper    string
	upperOff []int
	origOff  []int
}

func foldUpper(text string) *foldedText {
	runes := []rune(text)
	upper := make([]rune, len(runes))
	origOff := make([]int, len(runes)+1)
	upperOff := make([]int, len(runes)+1)
	origByte, upperByte := 0, 0
	for i, r := range runes {
		origOff[i] = origByte
		upperOff[i] = upperByte
		u := unicode.TurkishCase.ToUpper(r)
		upper[i] = u
		origByte += utf8.RuneLen(r)
		upperByte += utf8.RuneLen(u)
	}
	origOff[len(runes)] = origByte
	upperOff[len(runes)] = upperByte
	return &foldedText{Upper: string(upper), upperOff: upperOff, origOff: origOff}
}

// Orig maps a byte offset in the upper-cased view to the corresponding
// byte offset in the original text.
func (f *foldedText) Orig(upperByteOff int) int {
	i := sort.SearchInts(f.upperOff, upperByteOff)
	if i == len(f.upperOff) || f.upperOff[i] != upperByteOff {
		if i > 0 {
			i--
		}
	}
	return f.origOff[i]
}

// foldPositions reports the byte offsets in text of every occurrence of
// term under the matching fold. Matching is plain substring search with
// no word-boundary awareness.
func foldPositions(text, term string) [][2]int {
	needle := []rune(matchLower(term))
	if len(needle) == 0 {
		return nil
	}
	runes := []rune(text)
	lowered := make([]rune, len(runes))
	off := make([]int, len(runes)+1)
	byteOff := 0
	for i, r := range runes {
		off[i] = byteOff
		low := unicode.TurkishCase.ToLower(r)
		if low == 'ı' {
			low = 'i'
		}
		lowered[i] = low
		byteOff += utf8.RuneLen(r)
	}
	off[len(runes)] = byteOff

	var positions [][2]int
	for i := 0; i+len(needle) <= len(lowered); i++ {
		matched := true
		for j, want := range needle {
			if lowered[i+j] != want {
				matched = false
				break
			}
		}
		if matched {
			positions = append(positions, [2]int{off[i], off[i+len(needle)]})
			i += len(needle) - 1
		}
	}
	return positions
}
