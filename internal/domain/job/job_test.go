package job

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validJob() Job {
	return Job{
		Title:        "  Backend Engineer ",
		Description:  "Build the matching service",
		Requirements: Requirements{Required: []string{"node.js", "React", "react"}, Preferred: []string{"sql"}},
		SalaryRange:  SalaryRange{Min: 1000, Max: 2000},
		Location:     "Hanoi",
		WorkType:     WorkTypeHybrid,
	}
}

func TestNormalize_Valid(t *testing.T) {
	t.Parallel()

	j := validJob()
	require.Nil(t, j.Normalize())
	require.Equal(t, "Backend Engineer", j.Title)
	require.Equal(t, []string{"Node.js", "React"}, j.Requirements.Required)
	require.Equal(t, []string{"SQL"}, j.Requirements.Preferred)
	require.Equal(t, StatusPublished, j.Status)
}

func TestNormalize_FieldErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		mut   func(j *Job)
		field string
	}{
		{name: "empty title", mut: func(j *Job) { j.Title = " " }, field: "title"},
		{name: "empty description", mut: func(j *Job) { j.Description = "" }, field: "description"},
		{name: "no required skills", mut: func(j *Job) { j.Requirements.Required = nil }, field: "requirements.required"},
		{name: "unknown required skill", mut: func(j *Job) { j.Requirements.Required = []string{"Cobol"} }, field: "requirements.required"},
		{name: "unknown preferred skill", mut: func(j *Job) { j.Requirements.Preferred = []string{"Fortran"} }, field: "requirements.preferred"},
		{name: "inverted salary", mut: func(j *Job) { j.SalaryRange = SalaryRange{Min: 10, Max: 5} }, field: "salary_range"},
		{name: "negative salary", mut: func(j *Job) { j.SalaryRange = SalaryRange{Min: -1, Max: 5} }, field: "salary_range"},
		{name: "onsite without location", mut: func(j *Job) { j.Location = ""; j.WorkType = WorkTypeOnsite }, field: "location"},
		{name: "bad work type", mut: func(j *Job) { j.WorkType = "office" }, field: "work_type"},
		{name: "bad status", mut: func(j *Job) { j.Status = "archived" }, field: "status"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			j := validJob()
			tc.mut(&j)
			errs := j.Normalize()
			require.Contains(t, errs, tc.field)
		})
	}
}

func TestNormalize_RemoteWithoutLocation(t *testing.T) {
	t.Parallel()

	j := validJob()
	j.Location = ""
	j.WorkType = WorkTypeRemote
	require.Nil(t, j.Normalize())
}

func TestDecodeRequirements(t *testing.T) {
	t.Parallel()

	r := DecodeRequirements([]byte(`{"required":["React"],"preferred":["SQL"]}`))
	require.False(t, r.Malformed)
	require.Equal(t, []string{"React"}, r.Required)

	require.True(t, DecodeRequirements(nil).Malformed)
	require.True(t, DecodeRequirements([]byte("null")).Malformed)
	require.True(t, DecodeRequirements([]byte(`{"required": "React"}`)).Malformed)
	require.True(t, DecodeRequirements([]byte(`not json`)).Malformed)

	empty := DecodeRequirements([]byte(`{}`))
	require.False(t, empty.Malformed)
	require.Empty(t, empty.Required)
}

func TestRequirementsEncode_NeverNull(t *testing.T) {
	t.Parallel()

	b, err := Requirements{}.Encode()
	require.NoError(t, err)
	require.JSONEq(t, `{"required":[],"preferred":[]}`, string(b))
}
