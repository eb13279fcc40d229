package scrape

// Selectors locate each job field on a listing page. The defaults target the
// job pages of one board; config can override any of them when its markup
// changes.
type Selectors struct {
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	SkillsContainer string `yaml:"skills_container"`
	SkillItem       string `yaml:"skill_item"`
	Website         string `yaml:"website"`
	QuestionsModal  string `yaml:"questions_modal"`
	QuestionLabel   string `yaml:"question_label"`
	QuestionText    string `yaml:"question_text"`
}

// DefaultSelectors returns the selectors for the supported job board.
func DefaultSelectors() Selectors {
	return Selectors{
		Title:           "h1",
		Description:     ".styles_description__36q7q",
		SkillsContainer: ".styles_skillPillTags__Zv_Uv",
		SkillItem:       "span",
		Website:         ".styles_websiteLink___Rnfc",
		QuestionsModal:  `[data-test="JobApplication-Modal"]`,
		QuestionLabel:   ".mb-2 label",
		QuestionText:    ".text-dark-aaaa.text-md.font-medium",
	}
}

// Merge returns s with every empty field taken from fallback.
func (s Selectors) Merge(fallback Selectors) Selectors {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Selectors{
		Title:           pick(s.Title, fallback.Title),
		Description:     pick(s.Description, fallback.Description),
		SkillsContainer: pick(s.SkillsContainer, fallback.SkillsContainer),
		SkillItem:       pick(s.SkillItem, fallback.SkillItem),
		Website:         pick(s.Website, fallback.Website),
		QuestionsModal:  pick(s.QuestionsModal, fallback.QuestionsModal),
		QuestionLabel:   pick(s.QuestionLabel, fallback.QuestionLabel),
		QuestionText:    pick(s.QuestionText, fallback.QuestionText),
	}
}
