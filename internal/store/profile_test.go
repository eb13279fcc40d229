package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/draftin/internal/model"
)

func TestProfileRepo_SaveWritesAllKeys(t *testing.T) {
	kv := NewMemoryStore()
	repo := NewProfileRepo(kv)
	p := model.Profile{
		AboutMe:                "Engineer",
		Skills:                 "Go",
		AdditionalInstructions: "Keep it short",
	}

	require.NoError(t, repo.Save(p))

	content, ok, _ := kv.Get(KeyResumeContent)
	assert.True(t, ok)
	assert.Equal(t, p.ResumeContent(), content)

	instructions, _, _ := kv.Get(KeyApplyInstructions)
	assert.Equal(t, "Keep it short", instructions)

	data, _, _ := kv.Get(KeyResumeData)
	assert.Contains(t, data, `"aboutMe":"Engineer"`)
}

func TestProfileRepo_LoadRoundTrip(t *testing.T) {
	repo := NewProfileRepo(NewMemoryStore())
	p := model.Profile{AboutMe: "a", ProfessionalExperience: "b", Projects: "c", Skills: "d", AdditionalInstructions: "e"}
	require.NoError(t, repo.Save(p))

	got, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestProfileRepo_InstructionsKeyWins(t *testing.T) {
	kv := NewMemoryStore()
	repo := NewProfileRepo(kv)
	require.NoError(t, repo.Save(model.Profile{AboutMe: "x", AdditionalInstructions: "old"}))
	require.NoError(t, kv.Set(KeyApplyInstructions, "new"))

	got, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "new", got.AdditionalInstructions)
}

func TestProfileRepo_EmptyStore(t *testing.T) {
	repo := NewProfileRepo(NewMemoryStore())

	p, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, model.Profile{}, p)

	resume, instructions, err := repo.Inputs()
	require.NoError(t, err)
	assert.Empty(t, resume)
	assert.Empty(t, instructions)
}

func TestProfileRepo_CorruptData(t *testing.T) {
	kv := NewMemoryStore()
	require.NoError(t, kv.Set(KeyResumeData, "{not json"))

	_, err := NewProfileRepo(kv).Load()
	assert.Error(t, err)
}
