package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMergeProfile_OverwritesOnlyProvidedFields(t *testing.T) {
	current := Profile{
		PNo:  "E123",
		Name: strPtr("John"),
		Base: strPtr("JFK"),
	}

	merged := MergeProfile(current, ProfilePatch{Name: strPtr("Jane")})

	require.NotNil(t, merged.Name)
	require.NotNil(t, merged.Base)
	assert.Equal(t, "Jane", *merged.Name)
	assert.Equal(t, "JFK", *merged.Base)
	assert.Equal(t, "E123", merged.PNo)
	// 原记录不受影响
	assert.Equal(t, "John", *current.Name)
}

func TestMergeProfile_Idempotent(t *testing.T) {
	h := 172.5
	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	current := Profile{PNo: "E1", Name: strPtr("A"), Gender: strPtr("F")}
	patch := ProfilePatch{Alias: strPtr("ace"), Height: &h, DOB: &dob, Gender: strPtr("M")}

	once := MergeProfile(current, patch)
	twice := MergeProfile(once, patch)

	assert.Equal(t, once, twice)
}

func TestMergeProfile_EmptyPatchKeepsEveryField(t *testing.T) {
	stub := NewProfileStub("E9", "a@x.com", time.Now())

	merged := MergeProfile(*stub, ProfilePatch{})

	assert.Equal(t, *stub, merged)
	assert.Len(t, merged.FieldValues(), len(ProfileFields))
	assert.Len(t, merged.FieldPointers(), len(ProfileFields))
}

func TestMergeProfile_EveryPatchFieldIsApplied(t *testing.T) {
	f := 1.0
	d := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	patch := ProfilePatch{
		Name: strPtr("n"), Alias: strPtr("a"), DOB: &d, Gender: strPtr("g"),
		Email: strPtr("e"), Email2: strPtr("e2"), Number: strPtr("1"), Number2: strPtr("2"),
		Base: strPtr("b"), MaritalStatus: strPtr("m"), Employment: &d, Seniority: strPtr("s"),
		Height: &f, Weight: &f, EyeColor: strPtr("ec"), HairColor: strPtr("hc"), Image: strPtr("i"),
	}

	merged := MergeProfile(Profile{PNo: "E1"}, patch)

	for i, v := range merged.FieldValues() {
		assert.NotNil(t, v, "field %s was not merged", ProfileFields[i])
	}
}

func TestNewProfileStub(t *testing.T) {
	now := time.Date(2024, 3, 9, 15, 4, 5, 0, time.Local)

	stub := NewProfileStub("E123", "a@x.com", now)

	assert.Equal(t, "E123", stub.PNo)
	require.NotNil(t, stub.Email)
	assert.Equal(t, "a@x.com", *stub.Email)
	assert.Equal(t, "", *stub.Name)
	assert.Equal(t, "", *stub.Base)
	assert.Equal(t, "2024-03-09", stub.DOB.Format(time.DateOnly))
	assert.Equal(t, "2024-03-09", stub.Employment.Format(time.DateOnly))
	assert.Nil(t, stub.Height)
	assert.Nil(t, stub.Weight)
}
