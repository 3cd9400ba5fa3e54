package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var defaultSite []byte

// Site is everything rendered on the page.
type Site struct {
	Name           string `yaml:"name"`
	Headline       string `yaml:"headline"`
	Database       string `yaml:"database"`
	ResumeURL      string `yaml:"resumeURL"`
	ResumeFilename string `yaml:"resumeFilename"`

	TypingRoles      []string          `yaml:"typingRoles"`
	Experience       []Experience      `yaml:"experience"`
	Projects         []Project         `yaml:"projects"`
	Appearances      []Engagement      `yaml:"appearances"`
	Speaking         []Engagement      `yaml:"speaking"`
	Episodes         []Episode         `yaml:"episodes"`
	Platforms        []Platform        `yaml:"platforms"`
	Support          []Platform        `yaml:"support"`
	Skills           []SkillCategory   `yaml:"skills"`
	Acknowledgements []Acknowledgement `yaml:"acknowledgements"`
}

// Default returns the built-in site.
func Default() (*Site, error) {
	return Parse(defaultSite)
}

// Load reads a site file. An empty path returns the built-in site.
func Load(path string) (*Site, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading site file: %w", err)
	}
	site, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return site, nil
}

// Parse decodes a site document. Unknown fields are rejected.
func Parse(data []byte) (*Site, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var site Site
	if err := dec.Decode(&site); err != nil {
		return nil, fmt.Errorf("parsing site: %w", err)
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate checks the fields every page needs.
func (s *Site) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	for i, p := range s.Projects {
		if p.Title == "" {
			errs = append(errs, fmt.Errorf("projects[%d]: title is required", i))
		}
	}
	for i, e := range s.Appearances {
		if e.Title == "" {
			errs = append(errs, fmt.Errorf("appearances[%d]: title is required", i))
		}
		if e.Link != nil && len(e.Links) > 0 {
			errs = append(errs, fmt.Errorf("appearances[%d]: link and links are exclusive", i))
		}
	}
	for i, e := range s.Speaking {
		if e.Title == "" {
			errs = append(errs, fmt.Errorf("speaking[%d]: title is required", i))
		}
	}
	for i, c := range s.Skills {
		if c.Title == "" {
			errs = append(errs, fmt.Errorf("skills[%d]: title is required", i))
		}
	}
	return errors.Join(errs...)
}
