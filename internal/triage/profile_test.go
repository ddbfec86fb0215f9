package triage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile() Profile {
	p := profileWith("migraine", "2 days", 6, []string{"nausea"}, Asthma, KidneyDisease)
	age := 34
	gender := GenderMale
	p.Age = &age
	p.Gender = &gender
	p.CurrentMedications = []string{"salbutamol"}
	p.Allergies = []string{"penicillin"}
	return p
}

func TestNewProfile_HistoryHasAllConditions(t *testing.T) {
	p := NewProfile()

	assert.Len(t, p.MedicalHistory, 6)
	for _, c := range Conditions {
		v, ok := p.MedicalHistory[c]
		assert.True(t, ok, c)
		assert.False(t, v, c)
	}
}

func TestProfile_FieldsRoundTrip(t *testing.T) {
	p := sampleProfile()

	got, err := ProfileFromFields(p.Fields())

	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestProfile_FieldsRoundTripThroughJSON(t *testing.T) {
	p := sampleProfile()

	b, err := json.Marshal(p.Fields())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	got, err := ProfileFromFields(m)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestProfile_FieldsRoundTripEmpty(t *testing.T) {
	p := NewProfile()

	m := p.Fields()
	assert.Nil(t, m["age"])
	assert.Nil(t, m["primary_symptom"])

	got, err := ProfileFromFields(m)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestProfileFromFields_RejectsWrongTypes(t *testing.T) {
	_, err := ProfileFromFields(map[string]any{"age": "forty"})
	assert.Error(t, err)

	_, err = ProfileFromFields(map[string]any{"allergies": []any{1, 2}})
	assert.Error(t, err)
}

func TestCondition_DisplayName(t *testing.T) {
	assert.Equal(t, "Heart Disease", HeartDisease.DisplayName())
	assert.Equal(t, "Diabetes", Diabetes.DisplayName())
}
