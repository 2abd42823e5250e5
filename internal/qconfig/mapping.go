package qconfig

// Template describes a questionnaire: ordered sections of field
// definitions, keyed to the lifecycle gate the questionnaire belongs
// to.
type Template struct {
	ID       string            `json:"id"`
	Version  string            `json:"version"`
	Gate     string            `json:"gate"`
	Sections []TemplateSection `json:"sections"`
}

// TemplateSection is one section of a questionnaire template.
type TemplateSection struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Required bool            `json:"required"`
	Fields   []TemplateField `json:"fields"`
}

// TemplateField is one question in a template section.
type TemplateField struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Type      string `json:"type"`
	Required  bool   `json:"required"`
	ConfigKey string `json:"configKey,omitempty"`
}

// FieldMapping ties a template field to the config entry its answer
// populates.
type FieldMapping struct {
	SectionID string
	FieldID   string
	ConfigKey string
	Gate      string
}

// MapFields returns the config mapping for every field in the
// template that declares a config key. Fields without one exist only
// in the submission payload and are skipped.
func MapFields(tpl *Template) []FieldMapping {
	var out []FieldMapping
	for _, section := range tpl.Sections {
		for _, field := range section.Fields {
			if field.ConfigKey == "" {
				continue
			}
			out = append(out, FieldMapping{
				SectionID: section.ID,
				FieldID:   field.ID,
				ConfigKey: field.ConfigKey,
				Gate:      tpl.Gate,
			})
		}
	}
	return out
}

// RequiredSections returns the ids of the sections a submission must
// include, in template order.
func RequiredSections(tpl *Template) []string {
	var out []string
	for _, section := range tpl.Sections {
		if section.Required {
			out = append(out, section.ID)
		}
	}
	return out
}
