package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateResumeAcceptsMinimalDocument(t *testing.T) {
	doc := []byte(`{"personal_info": {"full_name": "Jane Doe"}}`)
	assert.NoError(t, ValidateResume(doc))
}

func TestValidateResumeAcceptsFullDocument(t *testing.T) {
	doc := []byte(`{
		"personal_info": {"full_name": "Jane Doe", "email": "jane@example.com"},
		"summary": "Backend engineer.",
		"experience": [{"company": "Acme", "title": "Engineer", "highlights": ["Shipped things"]}],
		"education": [{"institution": "State University", "degree": "BSc"}],
		"skills": ["Go", "SQL"],
		"projects": [{"name": "sidecar", "description": "infra tool"}],
		"certifications": [{"name": "CKA", "issuer": "CNCF"}]
	}`)
	assert.NoError(t, ValidateResume(doc))
}

func TestValidateResumeRequiresPersonalInfo(t *testing.T) {
	err := ValidateResume([]byte(`{"summary": "no identity"}`))
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.NotEmpty(t, ve.Errors)
	assert.Contains(t, err.Error(), "personal_info")
}

func TestValidateResumeRejectsUnknownFields(t *testing.T) {
	err := ValidateResume([]byte(`{"personal_info": {}, "hobbies": ["chess"]}`))
	assert.Error(t, err)
}

func TestValidateResumeRejectsExperienceWithoutTitle(t *testing.T) {
	doc := []byte(`{
		"personal_info": {"full_name": "Jane Doe"},
		"experience": [{"company": "Acme"}]
	}`)
	err := ValidateResume(doc)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	found := false
	for _, fe := range ve.Errors {
		if fe.Field != "" {
			found = true
		}
	}
	assert.True(t, found, "field paths should be populated")
}

func TestValidateResumeRejectsNonJSON(t *testing.T) {
	assert.Error(t, ValidateResume([]byte("not json")))
}
