// Package intent maps free-form user text onto a closed set of intents using
// cosine similarity over TF-IDF weighted bag-of-words vectors. It is a
// best-effort classifier with a rejection threshold, not language
// understanding: paraphrases outside the example corpus fall through to
// Unknown.
package intent

import (
	"math"
	"regexp"
	"strings"
)

// Intent is a closed category of user purpose assigned to a message.
type Intent string

// Intents returned by Classify.
const (
	Greeting    Intent = "greeting"
	Goodbye     Intent = "goodbye"
	Thanks      Intent = "thanks"
	About       Intent = "about"
	Navigate    Intent = "navigate"
	TeacherInfo Intent = "teacher_info"
	Unknown     Intent = "unknown"
)

// DefaultThreshold is the minimum cosine similarity a match must exceed
// (strictly) before an intent is accepted.
const DefaultThreshold = 0.3

// corpus lists every intent with its example phrases. Order matters: ties at
// the maximum similarity resolve to the first (intent, phrase) pair seen.
var corpus = []struct {
	name    Intent
	phrases []string
}{
	{Greeting, []string{"hello", "hi", "hey", "greetings", "good morning", "good afternoon"}},
	{Goodbye, []string{"bye", "goodbye", "see you", "take care"}},
	{Thanks, []string{"thanks", "thank you", "appreciate it"}},
	{About, []string{"who are you", "what are you", "what can you do"}},
	{Navigate, []string{"navigate", "find", "go to", "reach", "how to get to", "directions"}},
	{TeacherInfo, []string{"teacher", "faculty", "professor", "details of", "information on", "who is"}},
}

// Classifier holds the precomputed vocabulary, IDF weights, and normalized
// phrase vectors. Build it once at startup with New; Classify is pure and
// safe for concurrent use.
type Classifier struct {
	threshold float64
	vocab     map[string]int
	idf       []float64
	phrases   []scoredPhrase
}

type scoredPhrase struct {
	intent Intent
	vector []float64
}

// New builds a classifier over the fixed example corpus. A non-positive
// threshold falls back to DefaultThreshold.
func New(threshold float64) *Classifier {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	c := &Classifier{
		threshold: threshold,
		vocab:     make(map[string]int),
	}

	var docs [][]string
	for _, group := range corpus {
		for _, phrase := range group.phrases {
			tokens := tokenize(phrase)
			docs = append(docs, tokens)
			for _, tok := range tokens {
				if _, ok := c.vocab[tok]; !ok {
					c.vocab[tok] = len(c.vocab)
				}
			}
		}
	}

	// Smoothed inverse document frequency over the phrase corpus.
	df := make([]int, len(c.vocab))
	for _, tokens := range docs {
		for _, idx := range uniqueIndices(c.vocab, tokens) {
			df[idx]++
		}
	}
	c.idf = make([]float64, len(c.vocab))
	total := float64(len(docs))
	for i, n := range df {
		c.idf[i] = math.Log((1+total)/(1+float64(n))) + 1
	}

	for _, group := range corpus {
		for _, phrase := range group.phrases {
			c.phrases = append(c.phrases, scoredPhrase{
				intent: group.name,
				vector: c.vectorize(phrase),
			})
		}
	}

	return c
}

// Classify returns the intent whose example phrase scores the highest cosine
// similarity against the message, or Unknown when no score exceeds the
// threshold. Classification is deterministic and idempotent.
func (c *Classifier) Classify(message string) Intent {
	input := c.vectorize(message)
	if input == nil {
		return Unknown
	}

	best := Unknown
	bestScore := 0.0
	for _, phrase := range c.phrases {
		score := dot(input, phrase.vector)
		if score > bestScore {
			bestScore = score
			best = phrase.intent
		}
	}

	if bestScore > c.threshold {
		return best
	}
	return Unknown
}

// Threshold reports the configured rejection threshold.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// vectorize builds an L2-normalized TF-IDF vector. Tokens outside the corpus
// vocabulary are ignored; a message with no known token yields nil.
func (c *Classifier) vectorize(text string) []float64 {
	vec := make([]float64, len(c.vocab))
	known := false
	for _, tok := range tokenize(text) {
		idx, ok := c.vocab[tok]
		if !ok {
			continue
		}
		vec[idx] += c.idf[idx]
		known = true
	}
	if !known {
		return nil
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func uniqueIndices(vocab map[string]int, tokens []string) []int {
	seen := make(map[int]struct{}, len(tokens))
	var indices []int
	for _, tok := range tokens {
		idx, ok := vocab[tok]
		if !ok {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		indices = append(indices, idx)
	}
	return indices
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
