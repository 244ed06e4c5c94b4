package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormFieldDerive(t *testing.T) {
	field := FormField{Label: "Team Spirit", Type: FieldText}
	field.Derive()
	assert.Equal(t, "team_spirit", field.ID)
	assert.Equal(t, "teamSpirit", field.Name)

	field = FormField{Label: "Overall Quarterly Rating", Type: FieldNumber}
	field.Derive()
	assert.Equal(t, "overall_quarterly_rating", field.ID)
	assert.Equal(t, "overallQuarterlyRating", field.Name)

	// Explicit identifiers are kept.
	field = FormField{ID: "custom_id", Name: "customName", Label: "Team Spirit"}
	field.Derive()
	assert.Equal(t, "custom_id", field.ID)
	assert.Equal(t, "customName", field.Name)

	// A blank label derives nothing.
	field = FormField{Type: FieldText}
	field.Derive()
	assert.Empty(t, field.ID)
	assert.Empty(t, field.Name)
}

func TestFormFieldRoundTrip(t *testing.T) {
	form := FeedbackForm{Title: "Quarterly Review"}
	err := form.SetFields([]FormField{
		{Label: "Team Spirit", Type: FieldText, Required: true},
		{Label: "Work Quality", Type: FieldSelect, Options: []string{"good", "bad"}},
	})
	require.NoError(t, err)

	fields, err := form.FieldList()
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "team_spirit", fields[0].ID)
	assert.Equal(t, "teamSpirit", fields[0].Name)
	assert.True(t, fields[0].Required)
	assert.Equal(t, []string{"good", "bad"}, fields[1].Options)
}
