// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package devserver

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/glooble/pkg/types"
)

// ErrDuplicate is returned by Add for a URL already in the corpus.
var ErrDuplicate = errors.New("duplicate url")

// corpusFile is the on-disk layout of a corpus.
type corpusFile struct {
	Documents []types.Article `yaml:"documents"`
}

// Corpus is an in-memory inverted index over Articles.
type Corpus struct {
	mu       sync.RWMutex
	docs     []types.Article
	urls     map[string]struct{}
	postings map[string]map[int]int // term → doc index → occurrences
	version  uint64
}

// NewCorpus returns a corpus holding docs. Duplicate URLs after the first
// are skipped.
func NewCorpus(docs []types.Article) *Corpus {
	c := &Corpus{
		urls:     make(map[string]struct{}),
		postings: make(map[string]map[int]int),
	}
	for _, d := range docs {
		c.add(d)
	}
	return c
}

// LoadCorpus reads a YAML corpus file with a top-level "documents" list.
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	var f corpusFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing corpus %s: %w", path, err)
	}
	return NewCorpus(f.Documents), nil
}

// Len returns the number of documents.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// Add indexes a new document.
func (c *Corpus) Add(a types.Article) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.urls[a.URL]; ok {
		return fmt.Errorf("%s: %w", a.URL, ErrDuplicate)
	}
	c.add(a)
	c.version++
	return nil
}

// Version increases with every successful Add.
func (c *Corpus) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

func (c *Corpus) add(a types.Article) {
	if _, ok := c.urls[a.URL]; ok {
		return
	}
	idx := len(c.docs)
	c.docs = append(c.docs, a.Clone())
	c.urls[a.URL] = struct{}{}

	fields := []string{a.Title, a.Text}
	fields = append(fields, a.Tags...)
	fields = append(fields, a.Authors...)
	for _, term := range Tokenize(strings.Join(fields, " ")) {
		p, ok := c.postings[term]
		if !ok {
			p = make(map[int]int)
			c.postings[term] = p
		}
		p[idx]++
	}
}

// Has reports whether term is in the vocabulary.
func (c *Corpus) Has(term string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.postings[term]
	return ok
}

// Suggest returns the vocabulary term closest to term within maxDistance
// edits. Ties prefer the term found in more documents, then the
// alphabetically first. Terms of maxDistance runes or fewer are never
// corrected, since every short word is within reach of them.
func (c *Corpus) Suggest(term string, maxDistance int) (string, bool) {
	if utf8.RuneCountInString(term) <= maxDistance {
		return "", false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	best, bestDist, bestFreq := "", maxDistance+1, 0
	for candidate, p := range c.postings {
		d := levenshtein(term, candidate)
		if d > maxDistance {
			continue
		}
		freq := len(p)
		if d < bestDist || (d == bestDist && (freq > bestFreq || (freq == bestFreq && candidate < best))) {
			best, bestDist, bestFreq = candidate, d, freq
		}
	}
	return best, best != ""
}

// Match returns the documents containing every term, ordered by total
// occurrences, most first, with a score normalized to the best match.
func (c *Corpus) Match(terms []string) []types.Article {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(terms) == 0 {
		return nil
	}
	counts := make(map[int]int)
	for i, term := range terms {
		p := c.postings[term]
		if i == 0 {
			for doc, n := range p {
				counts[doc] = n
			}
			continue
		}
		for doc := range counts {
			n, ok := p[doc]
			if !ok {
				delete(counts, doc)
				continue
			}
			counts[doc] += n
		}
	}

	ids := make([]int, 0, len(counts))
	for doc := range counts {
		ids = append(ids, doc)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	out := make([]types.Article, len(ids))
	for i, doc := range ids {
		a := c.docs[doc].Clone()
		score := float64(counts[doc]) / float64(counts[ids[0]])
		a.Score = &score
		out[i] = a
	}
	return out
}

// Tokenize lowercases s and splits it into letter/digit runs.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// levenshtein returns the edit distance between a and b.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
