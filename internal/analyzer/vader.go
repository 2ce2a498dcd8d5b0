// Package analyzer scores message polarity with the VADER lexicon.
package analyzer

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
	"github.com/kyokomi/emoji/v2"

	"github.com/KagemniKarimu/nyota/internal/domain"
)

type Options struct {
	// ExpandEmojis rewrites emoji into their short-code words before
	// scoring, so "😢" is scored as "cry".
	ExpandEmojis bool
}

// Vader is a domain.Analyzer backed by govader. It is safe for concurrent use.
type Vader struct {
	opts Options
	sia  *govader.SentimentIntensityAnalyzer
}

func New(opts Options) *Vader {
	return &Vader{
		opts: opts,
		sia:  govader.NewSentimentIntensityAnalyzer(),
	}
}

func (v *Vader) Analyze(ctx context.Context, text string) (domain.Polarity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Polarity{}, err
	}
	if v.opts.ExpandEmojis {
		text = ExpandEmojis(text)
	}

	s := v.sia.PolarityScores(text)
	return domain.Polarity{
		Compound: s.Compound,
		Positive: s.Positive,
		Negative: s.Negative,
		Neutral:  s.Neutral,
	}, nil
}

var emojiReplacer = sync.OnceValue(func() *strings.Replacer {
	rev := emoji.RevCodeMap()

	keys := make([]string, 0, len(rev))
	for k := range rev {
		keys = append(keys, k)
	}
	// Longest sequences first so "❤️" wins over its bare "❤" prefix.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		codes := rev[k]
		if len(codes) == 0 {
			continue
		}
		pairs = append(pairs, k, " "+shortCodeWords(codes[0])+" ")
	}
	return strings.NewReplacer(pairs...)
})

// ExpandEmojis replaces every known emoji with the words of its primary
// short code.
func ExpandEmojis(text string) string {
	if isASCII(text) {
		return text
	}
	return strings.Join(strings.Fields(emojiReplacer().Replace(text)), " ")
}

func shortCodeWords(code string) string {
	code = strings.Trim(code, ":")
	return strings.ReplaceAll(code, "_", " ")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
