// Package topics maps free-text course titles and categories onto a fixed
// controlled vocabulary of canonical topic labels.
package topics

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"course-trends/internal/domain"
)

// Rule binds a canonical topic to the keywords that select it and to the
// phrase used when querying search interest for it. Rules are ordered:
// the first matching rule wins.
type Rule struct {
	Topic    string   `yaml:"topic"`
	Query    string   `yaml:"query"`
	Keywords []string `yaml:"keywords"`
}

type vocabularyFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads an ordered rule list from a YAML vocabulary file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topics: read rules file: %w", err)
	}

	var vf vocabularyFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("topics: parse rules file: %w", err)
	}
	if err := validate(vf.Rules); err != nil {
		return nil, err
	}
	return vf.Rules, nil
}

func validate(rules []Rule) error {
	if len(rules) == 0 {
		return fmt.Errorf("topics: rules file declares no rules")
	}
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if strings.TrimSpace(r.Topic) == "" {
			return fmt.Errorf("topics: rule[%d] has no topic", i)
		}
		if r.Topic == domain.TopicUnclassified {
			return fmt.Errorf("topics: rule[%d] uses the reserved topic %q", i, domain.TopicUnclassified)
		}
		if seen[r.Topic] {
			return fmt.Errorf("topics: duplicate rule for topic %q", r.Topic)
		}
		seen[r.Topic] = true
		if len(r.Keywords) == 0 {
			return fmt.Errorf("topics: rule for %q has no keywords", r.Topic)
		}
	}
	return nil
}

// DefaultRules is the built-in vocabulary, used when no rules file is given.
// It mirrors configs/topics.yaml.
func DefaultRules() []Rule {
	return []Rule{
		{
			Topic:    "data-science",
			Query:    "data science",
			Keywords: []string{"data science", "machine learning", "deep learning", "artificial intelligence", "statistics", "analytics"},
		},
		{
			Topic:    "data-tools",
			Query:    "data analysis tools",
			Keywords: []string{"excel", "sql", "power bi", "tableau", "math and logic"},
		},
		{
			Topic:    "web-development",
			Query:    "web development",
			Keywords: []string{"web development", "javascript", "computer science", "information technology", "programming", "software"},
		},
		{
			Topic:    "business-finance",
			Query:    "business finance",
			Keywords: []string{"business", "finance", "accounting", "marketing", "entrepreneur"},
		},
		{
			Topic:    "graphic-design",
			Query:    "graphic design",
			Keywords: []string{"graphic design", "photoshop", "illustrator", "arts and humanities", "design"},
		},
		{
			Topic:    "musical-instruments",
			Query:    "learn instrument",
			Keywords: []string{"musical instruments", "guitar", "piano", "music"},
		},
		{
			Topic:    "personal-development",
			Query:    "personal development",
			Keywords: []string{"personal development", "productivity", "leadership"},
		},
		{
			Topic:    "health-fitness",
			Query:    "fitness",
			Keywords: []string{"health", "fitness", "yoga", "nutrition"},
		},
	}
}

// Slug converts an arbitrary label into vocabulary form: lowercase, with
// runs of non-alphanumerics collapsed to single hyphens. Empty input maps
// to the unclassified sentinel.
func Slug(label string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return domain.TopicUnclassified
	}
	return s
}
