package generator

import (
	"sort"
	"strings"
)

// retrieveExamples finds historical tweets lexically similar to the topic,
// for optional style references in generation prompts. Plain word-set
// overlap over the 100 most recent tweets; zero-overlap tweets never
// qualify and ties keep recency order.
func (g *Generator) retrieveExamples(topic string, limit int) ([]string, error) {
	tweets, err := g.store.RecentTweets(100)
	if err != nil {
		return nil, err
	}

	topicWords := wordSet(topic)
	type scored struct {
		overlap int
		text    string
	}
	var matches []scored
	for _, t := range tweets {
		overlap := 0
		for w := range wordSet(t.Text) {
			if topicWords[w] {
				overlap++
			}
		}
		if overlap > 0 {
			matches = append(matches, scored{overlap, t.Text})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].overlap > matches[j].overlap
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.text
	}
	return texts, nil
}

func wordSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}
