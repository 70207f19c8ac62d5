package solver

import (
	"encoding/json"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	models "wordlebot/internal/models"
)

// fallbackWords keeps the solver usable when no dictionary file is present.
var fallbackWords = []string{"crane", "slate", "audio", "stare", "roate", "teary"}

// openers are statistically strong first guesses; the first turn picks
// randomly among whichever of them survive in the candidate set.
var openers = []string{"crane", "slate", "roate", "audio"}

type wordList struct {
	Words []string `json:"words"`
}

// LoadDictionary reads the word list file and returns the lowercase
// fixed-length words in it. A missing or malformed file degrades to the
// built-in fallback list.
func LoadDictionary(path string, log *zap.Logger) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("dictionary unavailable, using fallback list",
			zap.String("path", path), zap.Error(err))
		return fallbackWords
	}

	var wl wordList
	if err := json.Unmarshal(data, &wl); err != nil {
		log.Warn("dictionary unreadable, using fallback list",
			zap.String("path", path), zap.Error(err))
		return fallbackWords
	}

	words := lo.FilterMap(wl.Words, func(w string, _ int) (string, bool) {
		w = strings.ToLower(strings.TrimSpace(w))
		return w, len(w) == models.WordLength
	})
	if len(words) == 0 {
		log.Warn("dictionary empty, using fallback list", zap.String("path", path))
		return fallbackWords
	}

	log.Info("dictionary loaded", zap.String("path", path), zap.Int("words", len(words)))
	return words
}

// Solver narrows a candidate word set from accumulated letter feedback and
// proposes the next guess. Not safe for concurrent use; each session owns
// its own instance.
type Solver struct {
	words      []string
	candidates map[string]struct{}

	correct   [models.WordLength]byte
	present   map[byte]struct{}
	absent    map[byte]struct{}
	minCounts map[byte]int

	rng *rand.Rand
	log *zap.Logger
}

// New builds a solver over the given dictionary. A nil rng gets a
// time-seeded source; tests pass a seeded one for determinism.
func New(words []string, rng *rand.Rand, log *zap.Logger) *Solver {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Solver{words: words, rng: rng, log: log}
	s.Reset()
	return s
}

// Reset restores the full dictionary as the candidate set and clears all
// accumulated constraints.
func (s *Solver) Reset() {
	s.candidates = make(map[string]struct{}, len(s.words))
	for _, w := range s.words {
		s.candidates[w] = struct{}{}
	}
	s.correct = [models.WordLength]byte{}
	s.present = make(map[byte]struct{})
	s.absent = make(map[byte]struct{})
	s.minCounts = make(map[byte]int)
}

// CandidateCount returns the size of the live candidate set.
func (s *Solver) CandidateCount() int {
	return len(s.candidates)
}

// Update applies one guess's feedback in three passes: correct positions
// first, then present letters, then absent letters. A letter is recorded
// absent only when it is not already known present or correct anywhere,
// which keeps duplicate letters with mixed feedback consistent.
func (s *Solver) Update(word string, states []models.LetterState) {
	counts := make(map[byte]int, models.WordLength)
	for i := 0; i < len(word); i++ {
		counts[word[i]]++
	}

	for i := 0; i < len(word) && i < len(states); i++ {
		if states[i] != models.LetterCorrect {
			continue
		}
		c := word[i]
		s.correct[i] = c
		s.present[c] = struct{}{}
		if counts[c] > s.minCounts[c] {
			s.minCounts[c] = counts[c]
		}
	}

	for i := 0; i < len(word) && i < len(states); i++ {
		if states[i] != models.LetterPresent {
			continue
		}
		c := word[i]
		s.present[c] = struct{}{}
		if s.correct[i] != c && counts[c] > s.minCounts[c] {
			s.minCounts[c] = counts[c]
		}
	}

	for i := 0; i < len(word) && i < len(states); i++ {
		if states[i] != models.LetterAbsent {
			continue
		}
		c := word[i]
		if _, known := s.present[c]; known {
			continue
		}
		if s.isCorrectAnywhere(c) {
			continue
		}
		s.absent[c] = struct{}{}
	}
}

func (s *Solver) isCorrectAnywhere(c byte) bool {
	for _, pc := range s.correct {
		if pc == c {
			return true
		}
	}
	return false
}

// FilterCandidates drops every candidate inconsistent with the accumulated
// constraints. An empty result is treated as a recoverable anomaly: the
// solver resets to the full dictionary rather than failing the game.
func (s *Solver) FilterCandidates() {
	next := make(map[string]struct{}, len(s.candidates))
	for w := range s.candidates {
		if s.meetsConstraints(w) {
			next[w] = struct{}{}
		}
	}

	if len(next) == 0 {
		s.log.Warn("no words match constraints, resetting solver")
		s.Reset()
		return
	}

	s.candidates = next
	s.log.Debug("candidates filtered", zap.Int("remaining", len(s.candidates)))
}

func (s *Solver) meetsConstraints(word string) bool {
	for i, required := range s.correct {
		if required != 0 && word[i] != required {
			return false
		}
	}
	for c := range s.absent {
		if strings.IndexByte(word, c) >= 0 {
			return false
		}
	}
	for c := range s.present {
		if strings.IndexByte(word, c) < 0 {
			return false
		}
	}
	for c, min := range s.minCounts {
		if strings.Count(word, string(c)) < min {
			return false
		}
	}
	return true
}

// NextGuess proposes the next word to play. The first turn draws from the
// opener shortlist; later turns fold the most recent result into the
// constraints, filter, and pick randomly among the top-scored survivors so
// guess sequences stay non-deterministic.
func (s *Solver) NextGuess(gs *models.GameState) string {
	if gs == nil || len(gs.Guesses) == 0 {
		pool := lo.Filter(openers, func(w string, _ int) bool {
			_, ok := s.candidates[w]
			return ok
		})
		if len(pool) == 0 {
			pool = lo.Keys(s.candidates)
		}
		return pool[s.rng.Intn(len(pool))]
	}

	last := gs.Guesses[len(gs.Guesses)-1]
	s.Update(last.Word, last.States)
	s.FilterCandidates()

	if len(s.candidates) == 0 {
		s.log.Error("candidate set empty after reset, falling back to random word")
		return s.words[s.rng.Intn(len(s.words))]
	}

	return s.selectBest()
}

// selectBest ranks candidates by letter diversity plus a bonus for letters
// the feedback has said nothing about yet, then picks randomly among the
// top five.
func (s *Solver) selectBest() string {
	candidates := lo.Keys(s.candidates)
	if len(candidates) <= 2 {
		return candidates[0]
	}

	sort.Slice(candidates, func(i, j int) bool {
		si, sj := s.scoreWord(candidates[i]), s.scoreWord(candidates[j])
		if si != sj {
			return si > sj
		}
		return candidates[i] < candidates[j]
	})

	topN := len(candidates)
	if topN > 5 {
		topN = 5
	}
	return candidates[s.rng.Intn(topN)]
}

func (s *Solver) scoreWord(w string) int {
	unique := make(map[byte]struct{}, len(w))
	for i := 0; i < len(w); i++ {
		unique[w[i]] = struct{}{}
	}

	novelty := 0
	for c := range unique {
		_, isPresent := s.present[c]
		_, isAbsent := s.absent[c]
		if !isPresent && !isAbsent {
			novelty++
		}
	}

	return len(unique)*10 + novelty
}
