// Package parser turns ad-hoc textual game feedback into structured
// per-letter results. It handles the emoji glyph grids emitted by
// Wordle-style UIs (🟩🟨⬛ and close variants) plus the win/loss and
// solution-reveal phrasings around them.
package parser

import (
	"regexp"
	"strings"

	models "wordlebot/internal/models"
)

// glyphStates maps each recognized colored-square glyph to its letter state.
// Some UIs use the white square for absent letters, so both dark and white
// map to absent.
var glyphStates = map[rune]models.LetterState{
	'🟩': models.LetterCorrect,
	'🟨': models.LetterPresent,
	'⬛': models.LetterAbsent,
	'⬜': models.LetterAbsent,
}

// isSquareGlyph reports whether r belongs to the colored-square glyph block.
// The line filter keeps all of these so that an unmapped variant (🟥, 🟦, …)
// is seen and rejected instead of silently stripped.
func isSquareGlyph(r rune) bool {
	return (r >= 0x1F7E5 && r <= 0x1F7EB) || r == '⬛' || r == '⬜'
}

var gameOverPatterns = []*regexp.Regexp{
	// win phrasings
	regexp.MustCompile(`you\s+win`),
	regexp.MustCompile(`correct`),
	regexp.MustCompile(`genius`),
	regexp.MustCompile(`master`),
	regexp.MustCompile(`victory`),
	regexp.MustCompile(`🎉`),
	regexp.MustCompile(`✅`),
	regexp.MustCompile(`⭐`),
	regexp.MustCompile(`you\s+solved`),
	// loss phrasings
	regexp.MustCompile(`you\s+lose`),
	regexp.MustCompile(`game\s+over`),
	regexp.MustCompile(`hard\s+luck`),
	regexp.MustCompile(`the\s+word\s+was`),
	regexp.MustCompile(`❌`),
	regexp.MustCompile(`💣`),
}

// targetPatterns are tried in order; the first 5-letter capture wins.
var targetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`the\s+word\s+was\s+([a-z]{5})`),
	regexp.MustCompile(`answer[:\s]+([a-z]{5})`),
	regexp.MustCompile(`today's\s+word[:\s]+([a-z]{5})`),
	regexp.MustCompile(`it\s+was\s+([a-z]{5})`),
}

// ParseGrid scans text for the first line containing exactly five colored
// squares and maps them to letter states. Returns nil when no such line
// exists, when a square is an unrecognized variant, or when guessWord is not
// the expected length. It never guesses at malformed input.
func ParseGrid(text, guessWord string, turn int) *models.GuessResult {
	if len(guessWord) != models.WordLength {
		return nil
	}

	for _, line := range strings.Split(text, "\n") {
		var glyphs []rune
		for _, r := range line {
			if isSquareGlyph(r) {
				glyphs = append(glyphs, r)
			}
		}
		if len(glyphs) != models.WordLength {
			continue
		}

		states := make([]models.LetterState, 0, models.WordLength)
		for _, g := range glyphs {
			state, ok := glyphStates[g]
			if !ok {
				return nil
			}
			states = append(states, state)
		}

		return &models.GuessResult{
			Word:   strings.ToLower(guessWord),
			States: states,
			Turn:   turn,
		}
	}

	return nil
}

// DetectGameOver reports whether the text contains any win or loss phrase.
// It deliberately does not say which: callers decide the outcome from
// GuessResult.IsWin or turn exhaustion.
func DetectGameOver(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range gameOverPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

// ExtractTargetWord pulls the revealed solution out of a loss message, if
// the text matches any known phrasing. Empty string means no match.
func ExtractTargetWord(text string) string {
	lower := strings.ToLower(text)
	for _, p := range targetPatterns {
		if m := p.FindStringSubmatch(lower); m != nil {
			return m[1]
		}
	}
	return ""
}
