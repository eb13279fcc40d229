package store

import (
	"encoding/json"
	"fmt"

	"github.com/amishk599/draftin/internal/model"
)

// Setting keys. They match what earlier versions wrote, so existing
// databases keep working.
const (
	KeyResumeContent     = "resumeContent"
	KeyResumeData        = "resumeData"
	KeyApplyInstructions = "applyInstructions"
)

// ProfileRepo reads and writes the user's profile through a KVStore.
type ProfileRepo struct {
	kv model.KVStore
}

func NewProfileRepo(kv model.KVStore) *ProfileRepo {
	return &ProfileRepo{kv: kv}
}

// Save writes the formatted résumé, the raw sections and the instructions.
func (r *ProfileRepo) Save(p model.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := r.kv.Set(KeyResumeContent, p.ResumeContent()); err != nil {
		return err
	}
	if err := r.kv.Set(KeyResumeData, string(data)); err != nil {
		return err
	}
	return r.kv.Set(KeyApplyInstructions, p.AdditionalInstructions)
}

// Load returns the saved profile, or a zero Profile if nothing was saved.
// The instructions key wins over the copy inside the raw sections.
func (r *ProfileRepo) Load() (model.Profile, error) {
	var p model.Profile

	raw, ok, err := r.kv.Get(KeyResumeData)
	if err != nil {
		return p, err
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return p, fmt.Errorf("parse %s: %w", KeyResumeData, err)
		}
	}

	instructions, ok, err := r.kv.Get(KeyApplyInstructions)
	if err != nil {
		return p, err
	}
	if ok && instructions != "" {
		p.AdditionalInstructions = instructions
	}
	return p, nil
}

// Inputs returns the résumé text and instructions as the request builder
// consumes them. Both are empty if nothing was saved.
func (r *ProfileRepo) Inputs() (resume, instructions string, err error) {
	resume, _, err = r.kv.Get(KeyResumeContent)
	if err != nil {
		return "", "", err
	}
	instructions, _, err = r.kv.Get(KeyApplyInstructions)
	if err != nil {
		return "", "", err
	}
	return resume, instructions, nil
}
