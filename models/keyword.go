package models

// KeywordGroup is a label mapped to an ordered set of synonymous search terms.
// Interest for the group is the row-wise average of its terms.
type KeywordGroup struct {
	Label string   `yaml:"label"`
	Terms []string `yaml:"terms"`
}

// Window is a named look-back period and the Trends range expression for it.
// Slug is used in filenames and must be unique.
type Window struct {
	Label string `yaml:"label"`
	Slug  string `yaml:"slug"`
	Range string `yaml:"range"`
}

// Dataset is a family of keyword groups collected and reported together,
// e.g. genres or IP-expansion models. Name prefixes every artifact filename.
type Dataset struct {
	Name   string         `yaml:"name"`
	Title  string         `yaml:"title"`
	Groups []KeywordGroup `yaml:"groups"`
}

// Labels returns the group labels in configured order.
func (d Dataset) Labels() []string {
	labels := make([]string, len(d.Groups))
	for i, g := range d.Groups {
		labels[i] = g.Label
	}
	return labels
}

// Group looks up a keyword group by label.
func (d Dataset) Group(label string) (KeywordGroup, bool) {
	for _, g := range d.Groups {
		if g.Label == label {
			return g, true
		}
	}
	return KeywordGroup{}, false
}
