package classifier

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/empath/internal/emotions"
)

//go:embed lexicon.yaml
var builtinLexicon []byte

// DefaultBaseline is the raw weight neutral receives before any cue matches.
const DefaultBaseline = 0.5

// Lexicon maps each emotion label to the cue words and phrases that signal it.
type Lexicon struct {
	Version  string              `yaml:"version"`
	Baseline float64             `yaml:"baseline"`
	Emotions map[string][]string `yaml:"emotions"`
}

// ParseLexicon decodes a YAML lexicon. Every emotion key must belong to the
// vocabulary and carry at least one cue.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&lex); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}

	if lex.Baseline == 0 {
		lex.Baseline = DefaultBaseline
	}
	if lex.Baseline < 0 {
		return nil, fmt.Errorf("lexicon baseline must not be negative: %v", lex.Baseline)
	}
	if len(lex.Emotions) == 0 {
		return nil, fmt.Errorf("lexicon defines no emotions")
	}

	for key, cues := range lex.Emotions {
		label, ok := emotions.ParseLabel(key)
		if !ok {
			return nil, fmt.Errorf("lexicon emotion %q not in vocabulary", key)
		}
		if len(cues) == 0 {
			return nil, fmt.Errorf("lexicon emotion %q has no cues", label)
		}
	}

	return &lex, nil
}

// LexiconSource loads the lexicon a model is built from.
type LexiconSource interface {
	Load(ctx context.Context) (*Lexicon, error)
}

// BuiltinLexicon serves the lexicon compiled into the binary.
type BuiltinLexicon struct{}

func (BuiltinLexicon) Load(context.Context) (*Lexicon, error) {
	return ParseLexicon(builtinLexicon)
}

// BlobReader is the subset of the storage system a StoredLexicon needs.
type BlobReader interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// StoredLexicon reads the lexicon from blob storage.
type StoredLexicon struct {
	Store BlobReader
	Key   string
}

func (s StoredLexicon) Load(ctx context.Context) (*Lexicon, error) {
	rc, err := s.Store.Download(ctx, s.Key)
	if err != nil {
		return nil, fmt.Errorf("download lexicon %s: %w", s.Key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", s.Key, err)
	}

	return ParseLexicon(data)
}

type cue struct {
	tokens []string
	weight float64
}

// compiled is a lexicon prepared for scoring, with cues tokenized and indexed
// in vocabulary order.
type compiled struct {
	labels   []emotions.Label
	cues     [][]cue
	baseline float64
}

func compile(lex *Lexicon) *compiled {
	c := &compiled{
		labels:   emotions.Labels(),
		baseline: lex.Baseline,
	}
	c.cues = make([][]cue, len(c.labels))

	byLabel := make(map[emotions.Label][]string, len(lex.Emotions))
	for key, phrases := range lex.Emotions {
		label, _ := emotions.ParseLabel(key)
		byLabel[label] = append(byLabel[label], phrases...)
	}

	for i, label := range c.labels {
		for _, phrase := range byLabel[label] {
			tokens := tokenize(phrase)
			if len(tokens) == 0 {
				continue
			}
			c.cues[i] = append(c.cues[i], cue{tokens: tokens, weight: cueWeight(phrase)})
		}
	}

	return c
}

// cueWeight favors longer, more specific cues: 1 plus up to 1 more for ten or
// more characters.
func cueWeight(phrase string) float64 {
	n := utf8.RuneCountInString(strings.TrimSpace(phrase))
	return 1 + min(float64(n)/10, 1)
}

// score returns the raw weight for the label at index i.
func (c *compiled) score(i int, tokens []string) float64 {
	var raw float64
	if c.labels[i] == emotions.Neutral {
		raw = c.baseline
	}
	for _, q := range c.cues[i] {
		raw += float64(countPhrase(tokens, q.tokens)) * q.weight
	}
	return raw
}

// prediction turns raw weights into a probability distribution. The winner is
// the highest probability, ties resolved in vocabulary order.
func (c *compiled) prediction(raw []float64) Prediction {
	var total float64
	for _, r := range raw {
		total += r
	}

	scores := make([]emotions.Score, len(c.labels))
	best := 0
	for i, label := range c.labels {
		p := 0.0
		if total > 0 {
			p = raw[i] / total
		} else if label == emotions.Neutral {
			p = 1
		}
		scores[i] = emotions.Score{Label: label.String(), Score: p}
		if p > scores[best].Score {
			best = i
		}
	}

	return Prediction{
		Emotion:    scores[best].Label,
		Confidence: scores[best].Score,
		Scores:     scores,
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}

func countPhrase(tokens, phrase []string) int {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return 0
	}
	count := 0
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		match := true
		for j, p := range phrase {
			if tokens[i+j] != p {
				match = false
				break
			}
		}
		if match {
			count++
		}
	}
	return count
}
