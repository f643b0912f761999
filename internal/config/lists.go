package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// StringOrList accepts either a single YAML string or a list of strings.
type StringOrList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringOrList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		if single != "" {
			*s = StringOrList{single}
		}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*s = StringOrList(items)
		return nil
	}
	return fmt.Errorf("line %d: expected string or list of strings", value.Line)
}

// KeywordList accepts a YAML list of strings or a single comma-separated
// string, trimming whitespace and dropping empty entries either way.
type KeywordList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *KeywordList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*k = splitKeywords(strings.Split(single, ","))
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*k = splitKeywords(items)
		return nil
	}
	return fmt.Errorf("line %d: expected string or list of strings", value.Line)
}

func splitKeywords(parts []string) KeywordList {
	var keywords KeywordList
	for _, part := range parts {
		if kw := strings.TrimSpace(part); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
