package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Angela Liu", p.Name)
	assert.Equal(t, "Angela", p.FirstName)
	assert.Equal(t, Pronouns{Subject: "she", Object: "her", Possessive: "her"}, p.Pronouns)
	assert.Equal(t, "Flexpa", p.CurrentRole.Company)
	assert.Len(t, p.CurrentRole.Projects, 4)
	assert.NotEmpty(t, p.PastWork)
	assert.Len(t, p.SocialLinks, 3)
	assert.Len(t, p.BioParagraphs, 4)
}

func TestFullBio(t *testing.T) {
	p := &Profile{Name: "x", BioParagraphs: []string{"one", "two"}}
	assert.Equal(t, "one\n\ntwo", p.FullBio())

	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, len(def.BioParagraphs)-1, strings.Count(def.FullBio(), "\n\n"))
}

func TestParse(t *testing.T) {
	t.Run("Missing name", func(t *testing.T) {
		_, err := Parse([]byte("bio: hello\n"))
		assert.ErrorIs(t, err, ErrInvalidProfile)
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		_, err := Parse([]byte("name: [unterminated"))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Test Person\nbio_paragraphs:\n  - hi\n"), 0o600))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Test Person", p.Name)
	assert.Equal(t, "Test", p.FirstName, "first name defaults to the first word of the name")
	assert.Equal(t, "their", p.Pronouns.Possessive)
	assert.Equal(t, "hi", p.FullBio())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
