// Package content holds the portfolio records and loads them from YAML.
package content

// Link is an outbound link on a project or engagement. Type names a known
// platform (github, website, youtube, ...) and selects the icon; Text is used
// when there is no icon.
type Link struct {
	URL  string `yaml:"url"`
	Text string `yaml:"text,omitempty"`
	Type string `yaml:"type,omitempty"`
	Logo string `yaml:"logo,omitempty"`
}

// Label is Text, falling back to Type.
func (l Link) Label() string {
	if l.Text != "" {
		return l.Text
	}
	return l.Type
}

// Badge is the pill shown in an engagement header.
type Badge struct {
	Text string `yaml:"text"`
	Type string `yaml:"type"`
}

// Engagement is a speaking appearance, podcast guest spot or similar. Link and
// Links are exclusive: a card renders Links when present, else Link.
type Engagement struct {
	Title        string `yaml:"title"`
	Role         string `yaml:"role"`
	Organization string `yaml:"organization,omitempty"`
	Description  string `yaml:"description"`
	Badge        *Badge `yaml:"badge,omitempty"`
	Link         *Link  `yaml:"link,omitempty"`
	Links        []Link `yaml:"links,omitempty"`
	Featured     bool   `yaml:"featured,omitempty"`
	Category     string `yaml:"category,omitempty"`
}

func (e Engagement) CardTitle() string       { return e.Title }
func (e Engagement) CardDescription() string { return e.Description }
func (e Engagement) CardFeatured() bool      { return e.Featured }
func (e Engagement) CardCategory() string    { return e.Category }

// SetCardFeatured implements the card featured toggle.
func (e *Engagement) SetCardFeatured(f bool) { e.Featured = f }

// Project is a portfolio project.
type Project struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Image       string `yaml:"image,omitempty"`
	Links       []Link `yaml:"links,omitempty"`
	Category    string `yaml:"category,omitempty"`
	Featured    bool   `yaml:"featured,omitempty"`
}

func (p Project) CardTitle() string       { return p.Title }
func (p Project) CardDescription() string { return p.Description }
func (p Project) CardFeatured() bool      { return p.Featured }
func (p Project) CardCategory() string    { return p.Category }

// SetCardFeatured implements the card featured toggle.
func (p *Project) SetCardFeatured(f bool) { p.Featured = f }

// EpisodeLink points at one platform hosting an episode.
type EpisodeLink struct {
	Platform string `yaml:"platform"`
	URL      string `yaml:"url"`
}

// Episode is a podcast episode.
type Episode struct {
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Image       string        `yaml:"image,omitempty"`
	Links       []EpisodeLink `yaml:"links,omitempty"`
}

func (e Episode) CardTitle() string       { return e.Title }
func (e Episode) CardDescription() string { return e.Description }
func (Episode) CardFeatured() bool        { return false }
func (Episode) CardCategory() string      { return "" }

// SkillCategory is a titled, ordered list of skills.
type SkillCategory struct {
	Title  string   `yaml:"title"`
	Skills []string `yaml:"skills"`
}

func (s SkillCategory) CardTitle() string     { return s.Title }
func (SkillCategory) CardDescription() string { return "" }
func (SkillCategory) CardFeatured() bool      { return false }
func (SkillCategory) CardCategory() string    { return "" }

// Clone copies the skill slice so edits do not alias the source.
func (s SkillCategory) Clone() SkillCategory {
	s.Skills = append([]string(nil), s.Skills...)
	return s
}

// Platform is a read-only link to where the podcast lives, or a support
// option.
type Platform struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"displayName"`
	URL         string `yaml:"url"`
	Icon        string `yaml:"icon,omitempty"`
	IconWidth   int    `yaml:"iconWidth,omitempty"`
	IconHeight  int    `yaml:"iconHeight,omitempty"`
}

// Experience is one timeline entry. Description holds one bullet per line and
// may contain [text](url) links.
type Experience struct {
	Organization string `yaml:"organization"`
	Role         string `yaml:"role"`
	From         string `yaml:"from"`
	To           string `yaml:"to"`
	Description  string `yaml:"description"`
	Logo         string `yaml:"logo,omitempty"`
}

// Acknowledgement is a person thanked on the page.
type Acknowledgement struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}
