// Package roster indexes the dataset's player names and resolves free-text
// mentions to canonical names. Resolution is layered: case-insensitive
// substring, fuzzy edit distance, last-name token, first-name token. Each
// layer is a pure function returning ranked candidates with a confidence
// score, so ambiguity stays visible to callers.
package roster

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/orsinium-labs/stopwords"
)

// Default resolution configuration.
const (
	defaultFuzzyCutoff = 0.6
	defaultCacheSize   = 4096
	fuzzyTopN          = 3
	minAliasLen        = 3
)

// Candidate is one possible resolution of a queried name.
type Candidate struct {
	Name       string
	Confidence float64
}

// Roster holds the player index for one dataset.
type Roster struct {
	players []string
	lower   []string
	count   func(string) int

	sw    *stopwords.Stopwords
	cache *resolutionCache

	fuzzyCutoff float64
}

// Option applies a configuration option to the Roster.
type Option func(*Roster)

// WithFuzzyCutoff sets the minimum normalized similarity for the fuzzy
// layer. Values outside (0, 1] are ignored.
func WithFuzzyCutoff(cutoff float64) Option {
	return func(r *Roster) {
		if cutoff > 0 && cutoff <= 1 {
			r.fuzzyCutoff = cutoff
		}
	}
}

// WithCacheSize bounds the resolution cache. Zero or negative disables it.
func WithCacheSize(size int) Option {
	return func(r *Roster) {
		r.cache = newResolutionCache(size)
	}
}

// New builds a roster over canonical player names. count reports the data
// volume per player and is used to break last-name ties; it may be nil.
func New(players []string, count func(string) int, opts ...Option) *Roster {
	if count == nil {
		count = func(string) int { return 0 }
	}
	r := &Roster{
		players:     append([]string(nil), players...),
		count:       count,
		sw:          stopwords.MustGet("en"),
		fuzzyCutoff: defaultFuzzyCutoff,
		cache:       newResolutionCache(defaultCacheSize),
	}
	sort.Strings(r.players)
	r.lower = make([]string, len(r.players))
	for i, p := range r.players {
		r.lower[i] = strings.ToLower(p)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Players returns the canonical names in sorted order.
func (r *Roster) Players() []string { return r.players }

// Suggest returns canonical names with the given case-insensitive prefix.
func (r *Roster) Suggest(prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	out := make([]string, 0)
	for i, low := range r.lower {
		if strings.HasPrefix(low, prefix) {
			out = append(out, r.players[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

// Surfaces returns every surface form the extractor should recognize:
// full names plus last-name and first-name aliases. Aliases that are
// English stopwords or too short are dropped; ambiguous aliases (shared
// by several players) are kept, since resolution happens downstream.
func (r *Roster) Surfaces() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(r.players)*2)
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if len(s) < minAliasLen || r.sw.Contains(s) {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, p := range r.players {
		add(p)
		tokens := strings.Fields(strings.ToLower(p))
		if len(tokens) > 1 {
			add(tokens[0])
			add(tokens[len(tokens)-1])
		}
	}
	return out
}

// Resolve maps a free-text name to a canonical player. Layers run in
// order; the first layer producing candidates wins and its top candidate
// is returned with that layer's confidence.
func (r *Roster) Resolve(name string) (string, float64, bool) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return "", 0, false
	}
	if r.cache != nil {
		if hit, ok := r.cache.get(query); ok {
			return hit.name, hit.confidence, hit.name != ""
		}
	}

	resolved, confidence, ok := r.resolve(query)
	if r.cache != nil {
		r.cache.put(query, cachedResolution{name: resolved, confidence: confidence})
	}
	return resolved, confidence, ok
}

func (r *Roster) resolve(query string) (string, float64, bool) {
	layers := [](func() []Candidate){
		func() []Candidate { return SubstringMatches(query, r.players) },
		func() []Candidate { return FuzzyMatches(query, r.players, r.fuzzyCutoff) },
		func() []Candidate { return LastNameMatches(query, r.players, r.count) },
		func() []Candidate { return FirstNameMatches(query, r.players) },
	}
	for _, layer := range layers {
		if cands := layer(); len(cands) > 0 {
			return cands[0].Name, cands[0].Confidence, true
		}
	}
	return "", 0, false
}

// SubstringMatches finds players whose name contains the query,
// case-insensitively. Confidence scales with how much of the name the
// query covers.
func SubstringMatches(query string, players []string) []Candidate {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	out := make([]Candidate, 0)
	for _, p := range players {
		low := strings.ToLower(p)
		if strings.Contains(low, query) {
			out = append(out, Candidate{Name: p, Confidence: float64(len(query)) / float64(len(low))})
		}
	}
	sortCandidates(out)
	return out
}

// FuzzyMatches ranks players by normalized levenshtein similarity
// (1 - distance/maxLen), keeping the top three above the cutoff.
// Candidates whose tokens are a superset of the query tokens are
// preferred, matching how misspelled full names should resolve.
func FuzzyMatches(query string, players []string, cutoff float64) []Candidate {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	scored := make([]Candidate, 0)
	for _, p := range players {
		low := strings.ToLower(p)
		sim := similarity(query, low)
		if sim >= cutoff {
			scored = append(scored, Candidate{Name: p, Confidence: sim})
		}
	}
	sortCandidates(scored)
	if len(scored) > fuzzyTopN {
		scored = scored[:fuzzyTopN]
	}
	if len(scored) < 2 {
		return scored
	}

	queryTokens := tokenSet(query)
	for i, c := range scored {
		if tokenSuperset(tokenSet(strings.ToLower(c.Name)), queryTokens) {
			if i > 0 {
				preferred := scored[i]
				copy(scored[1:i+1], scored[:i])
				scored[0] = preferred
			}
			break
		}
	}
	return scored
}

// LastNameMatches finds players whose name tokens contain the query's
// last token. Ties are broken by data volume, so better-covered players
// rank first. Confidence drops when several players share the last name.
func LastNameMatches(query string, players []string, count func(string) int) []Candidate {
	query = strings.ToLower(strings.TrimSpace(query))
	last := query
	if i := strings.LastIndex(query, " "); i >= 0 {
		last = query[i+1:]
	}
	if last == "" {
		return nil
	}
	out := make([]Candidate, 0)
	for _, p := range players {
		for _, tok := range strings.Fields(strings.ToLower(p)) {
			if tok == last {
				out = append(out, Candidate{Name: p})
				break
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	confidence := 1.0 / float64(len(out))
	for i := range out {
		out[i].Confidence = confidence
	}
	sort.SliceStable(out, func(i, j int) bool {
		return count(out[i].Name) > count(out[j].Name)
	})
	return out
}

// FirstNameMatches finds players containing the query's first token.
// It only yields a result when exactly one player matches; a shared
// first name is too ambiguous to resolve from.
func FirstNameMatches(query string, players []string) []Candidate {
	query = strings.ToLower(strings.TrimSpace(query))
	first, _, found := strings.Cut(query, " ")
	if !found || first == "" {
		return nil
	}
	out := make([]Candidate, 0, 2)
	for _, p := range players {
		if strings.Contains(strings.ToLower(p), first) {
			out = append(out, Candidate{Name: p, Confidence: 0.5})
			if len(out) > 1 {
				return nil
			}
		}
	}
	return out
}

func similarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		out[tok] = struct{}{}
	}
	return out
}

func tokenSuperset(have, want map[string]struct{}) bool {
	for tok := range want {
		if _, ok := have[tok]; !ok {
			return false
		}
	}
	return len(want) > 0
}

func sortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Confidence > cands[j].Confidence
	})
}

// CacheStats reports resolution cache hits and misses for monitoring.
func (r *Roster) CacheStats() (hits, misses int64) {
	if r.cache == nil {
		return 0, 0
	}
	return r.cache.stats()
}
