package report

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the leading metadata block read by document converters.
type Frontmatter struct {
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
}

func (f Frontmatter) render() (string, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report metadata: %w", err)
	}
	return "---\n" + string(data) + "---\n", nil
}

// SplitFrontmatter separates a leading YAML metadata block from the body.
// Documents without a block return a zero Frontmatter and the input unchanged.
func SplitFrontmatter(markdown string) (Frontmatter, string, error) {
	if !strings.HasPrefix(markdown, "---\n") {
		return Frontmatter{}, markdown, nil
	}

	endIdx := strings.Index(markdown[4:], "\n---\n")
	if endIdx == -1 {
		return Frontmatter{}, markdown, nil
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(markdown[4:4+endIdx]), &fm); err != nil {
		return Frontmatter{}, markdown, fmt.Errorf("failed to parse report metadata: %w", err)
	}
	return fm, strings.TrimSpace(markdown[4+endIdx+5:]), nil
}
