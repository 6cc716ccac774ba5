package summary

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"newshunt-bot/internal/domain"
)

// stopwords — служебные английские слова, не несущие смысла при оценке.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`a about above after again against all am an and any are as at be because
been before being below between both but by could did do does doing down during each few for from further had
has have having he her here hers herself him himself his how i if in into is it its itself just me more most
my myself no nor not now of off on once only or other our ours ourselves out over own s same she should so
some such t than that the their theirs them themselves then there these they this those through to too under
until up very was we were what when where which while who whom why will with you your yours yourself yourselves`) {
		stopwords[w] = struct{}{}
	}
}

// splitSentences режет текст на предложения по терминальной пунктуации.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Extract выбирает limit самых содержательных предложений, сохраняя
// исходный порядок. Оценка предложения — сумма частот его слов без
// стоп-слов; предложения из первой трети текста получают полный вес,
// остальные — пониженный.
func Extract(text string, limit int) []string {
	sentences := splitSentences(text)
	if len(sentences) <= limit {
		return sentences
	}

	freq := map[string]int{}
	for _, word := range tokenize(text) {
		if _, stop := stopwords[word]; stop {
			continue
		}
		freq[word]++
	}

	type scored struct {
		index int
		score float64
	}
	head := len(sentences) * 3 / 10
	ranked := make([]scored, 0, len(sentences))
	for i, sentence := range sentences {
		var sum int
		for _, word := range tokenize(sentence) {
			sum += freq[word]
		}
		weight := 0.8
		if i <= head {
			weight = 1.0
		}
		ranked = append(ranked, scored{index: i, score: float64(sum) * weight})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	top := ranked[:limit]
	sort.Slice(top, func(i, j int) bool { return top[i].index < top[j].index })

	out := make([]string, 0, limit)
	for _, s := range top {
		out = append(out, sentences[s.index])
	}
	return out
}

// Format собирает предложения в текст выбранного стиля.
func Format(sentences []string, style domain.SummaryStyle) string {
	switch style {
	case domain.StyleBullet:
		lines := make([]string, 0, len(sentences))
		for _, s := range sentences {
			lines = append(lines, "• "+s)
		}
		return strings.Join(lines, "\n")
	case domain.StyleNumbered:
		lines := make([]string, 0, len(sentences))
		for i, s := range sentences {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, s))
		}
		return strings.Join(lines, "\n")
	default:
		return strings.Join(sentences, " ")
	}
}

// Keywords возвращает limit самых частых значимых слов текста.
func Keywords(text string, limit int) []string {
	freq := map[string]int{}
	for _, word := range tokenize(text) {
		if _, stop := stopwords[word]; stop {
			continue
		}
		if len([]rune(word)) < 4 {
			continue
		}
		freq[word]++
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > limit {
		words = words[:limit]
	}
	return words
}
