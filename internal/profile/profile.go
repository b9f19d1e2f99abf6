// Package profile holds the static portfolio dataset the assistant is allowed
// to talk about.
package profile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profile.yaml
var embeddedProfile []byte

type Project struct {
	Name     string `yaml:"name"`
	Slug     string `yaml:"slug"`
	Subtitle string `yaml:"subtitle"`
	Problem  string `yaml:"problem"`
	Role     string `yaml:"role"`
	Outcome  string `yaml:"outcome"`
}

type WorkExperience struct {
	Company     string    `yaml:"company"`
	Title       string    `yaml:"title"`
	Period      string    `yaml:"period"`
	Description string    `yaml:"description"`
	Projects    []Project `yaml:"projects"`
}

type SocialLink struct {
	Platform string `yaml:"platform"`
	Label    string `yaml:"label"`
	URL      string `yaml:"url"`
}

// Pronouns are the words the assistant uses to refer to the profile owner.
type Pronouns struct {
	Subject    string `yaml:"subject"`
	Object     string `yaml:"object"`
	Possessive string `yaml:"possessive"`
}

// Profile is treated as immutable once loaded.
type Profile struct {
	Name          string           `yaml:"name"`
	FirstName     string           `yaml:"first_name"`
	Pronouns      Pronouns         `yaml:"pronouns"`
	Bio           string           `yaml:"bio"`
	CurrentRole   WorkExperience   `yaml:"current_role"`
	PastWork      []WorkExperience `yaml:"past_work"`
	SocialLinks   []SocialLink     `yaml:"social_links"`
	BioParagraphs []string         `yaml:"bio_paragraphs"`
}

// ErrInvalidProfile is returned when a dataset parses but lacks required fields.
var ErrInvalidProfile = errors.New("invalid profile")

// Default returns the dataset compiled into the binary.
func Default() (*Profile, error) {
	return Parse(embeddedProfile)
}

// Load reads a profile override from disk.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read profile %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML profile document.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("could not decode profile: %w", err)
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if p.FirstName == "" {
		p.FirstName = strings.Fields(p.Name)[0]
	}
	if p.Pronouns == (Pronouns{}) {
		p.Pronouns = Pronouns{Subject: "they", Object: "them", Possessive: "their"}
	}
	return &p, nil
}

// FullBio joins the long-form biography paragraphs with blank lines.
func (p *Profile) FullBio() string {
	return strings.Join(p.BioParagraphs, "\n\n")
}
