package matching

import (
	"math/rand"
	"testing"

	"skillmatch/internal/domain/job"
	"skillmatch/internal/domain/skill"

	"github.com/stretchr/testify/require"
)

func TestEvaluate_RequiredSkillsScenario(t *testing.T) {
	t.Parallel()

	req := job.Requirements{Required: []string{"React", "Node.js"}, Preferred: []string{"SQL", "Docker"}}

	w1 := Evaluate([]string{"React", "Node.js", "SQL"}, req)
	require.True(t, w1.Compatible)
	require.Equal(t, []string{"React", "Node.js"}, w1.MatchedRequired)
	require.Empty(t, w1.MissingRequired)
	require.Equal(t, []string{"SQL"}, w1.MatchedPreferred)

	w2 := Evaluate([]string{"React"}, req)
	require.False(t, w2.Compatible)
	require.Equal(t, []string{"Node.js"}, w2.MissingRequired)
}

func TestEvaluate_CaseAndWhitespaceInsensitive(t *testing.T) {
	t.Parallel()

	req := job.Requirements{Required: []string{"node.js", " REACT "}}
	require.True(t, Compatible([]string{"React", "Node.js"}, req))
	require.True(t, Compatible([]string{"react", "NODE.JS"}, req))
}

func TestEvaluate_OrderInsensitive(t *testing.T) {
	t.Parallel()

	req := job.Requirements{Required: []string{"Go", "PostgreSQL", "Docker"}}
	require.True(t, Compatible([]string{"Docker", "Go", "PostgreSQL"}, req))
	require.True(t, Compatible([]string{"PostgreSQL", "Docker", "Go", "Go"}, req))
}

func TestEvaluate_EmptyRequiredIsVacuouslyTrue(t *testing.T) {
	t.Parallel()

	require.True(t, Compatible(nil, job.Requirements{}))
	require.True(t, Compatible([]string{"React"}, job.Requirements{Required: []string{}}))
}

func TestEvaluate_MissingWorkerSkills(t *testing.T) {
	t.Parallel()

	require.False(t, Compatible(nil, job.Requirements{Required: []string{"React"}}))
	require.False(t, Compatible([]string{}, job.Requirements{Required: []string{"React"}}))
}

func TestEvaluate_MalformedData(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		req  job.Requirements
	}{
		{name: "undecodable document", req: job.DecodeRequirements([]byte(`{"required": 7}`))},
		{name: "null document", req: job.DecodeRequirements([]byte(`null`))},
		{name: "empty tag", req: job.Requirements{Required: []string{"React", ""}}},
		{name: "unknown tag", req: job.Requirements{Required: []string{"React", "Cobol"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := Evaluate([]string{"React", "Node.js"}, tc.req)
			require.False(t, res.Compatible)
			require.True(t, res.Malformed)
		})
	}
}

func TestEvaluate_UnknownWorkerTagsIgnored(t *testing.T) {
	t.Parallel()

	req := job.Requirements{Required: []string{"React"}}
	require.True(t, Compatible([]string{"React", "Cobol", ""}, req))
}

func TestEvaluate_PreferredNeverFilters(t *testing.T) {
	t.Parallel()

	req := job.Requirements{Required: []string{"Go"}, Preferred: []string{"Rust", "Kubernetes"}}
	res := Evaluate([]string{"Go"}, req)
	require.True(t, res.Compatible)
	require.Empty(t, res.MatchedPreferred)
}

// Compatible must agree with plain set containment over canonical tags.
func TestEvaluate_AgreesWithSetContainment(t *testing.T) {
	t.Parallel()

	vocab := skill.All()
	rng := rand.New(rand.NewSource(42))
	pick := func(n int) []string {
		out := make([]string, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, vocab[rng.Intn(20)].Name)
		}
		return out
	}

	for i := 0; i < 500; i++ {
		required := pick(rng.Intn(4))
		workerSkills := pick(rng.Intn(8))

		have := map[string]bool{}
		for _, s := range workerSkills {
			have[s] = true
		}
		want := true
		for _, r := range required {
			if !have[r] {
				want = false
				break
			}
		}

		got := Compatible(workerSkills, job.Requirements{Required: required})
		require.Equal(t, want, got, "required=%v skills=%v", required, workerSkills)
	}
}
