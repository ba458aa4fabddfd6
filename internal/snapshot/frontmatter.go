package snapshot

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Frontmatter describes a captured document.
type Frontmatter struct {
	ID          string `yaml:"id"`
	URL         string `yaml:"url"`
	FinalURL    string `yaml:"final_url"`
	Referrer    string `yaml:"referrer,omitempty"`
	ContentType string `yaml:"content_type"`
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
	Redirects   int    `yaml:"redirects,omitempty"`
	FetchedAt   string `yaml:"fetched_at"`
}

// Render returns the front matter block including its --- fences.
func (f Frontmatter) Render() (string, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	return "---\n" + string(data) + "---\n", nil
}
