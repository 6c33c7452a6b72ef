package topics

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"course-trends/internal/domain"
)

// Catalog exports repeat the same category strings thousands of times, so a
// small memoization cache removes most of the matching work.
const cacheSize = 4096

// Normalizer assigns exactly one canonical topic to each record. It never
// fails: anything no rule matches becomes the unclassified sentinel.
type Normalizer struct {
	rules []Rule
	cache *lru.Cache[string, string]
}

// NewNormalizer builds a normalizer over an ordered rule list.
func NewNormalizer(rules []Rule) *Normalizer {
	cache, _ := lru.New[string, string](cacheSize)
	return &Normalizer{rules: rules, cache: cache}
}

// Normalize maps a raw title/category pair to a canonical topic. Matching is
// case-insensitive substring matching of each rule's keywords against the
// category and title; rule order is the deterministic tie-break. Empty or
// whitespace-only input yields the unclassified sentinel.
func (n *Normalizer) Normalize(title, category string) string {
	key := category + "\x00" + title
	if topic, ok := n.cache.Get(key); ok {
		return topic
	}

	topic := n.classify(title, category)
	n.cache.Add(key, topic)
	return topic
}

func (n *Normalizer) classify(title, category string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	c := strings.ToLower(strings.TrimSpace(category))
	if t == "" && c == "" {
		return domain.TopicUnclassified
	}

	for _, rule := range n.rules {
		for _, kw := range rule.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(c, kw) || strings.Contains(t, kw) {
				return rule.Topic
			}
		}
	}
	return domain.TopicUnclassified
}

// Classify normalizes a whole batch of records in input order.
func (n *Normalizer) Classify(records []domain.CourseRecord) []domain.Classified {
	out := make([]domain.Classified, 0, len(records))
	for _, r := range records {
		out = append(out, domain.Classified{
			Topic:    n.Normalize(r.RawTitle, r.RawCategory),
			Year:     r.Year,
			Platform: r.Platform,
		})
	}
	return out
}

// Topics lists the canonical topics in rule order.
func (n *Normalizer) Topics() []string {
	out := make([]string, 0, len(n.rules))
	for _, r := range n.rules {
		out = append(out, r.Topic)
	}
	return out
}

// QueryFor returns the search phrase configured for a topic, falling back
// to the topic label itself.
func (n *Normalizer) QueryFor(topic string) string {
	for _, r := range n.rules {
		if r.Topic == topic && strings.TrimSpace(r.Query) != "" {
			return r.Query
		}
	}
	return strings.ReplaceAll(topic, "-", " ")
}
