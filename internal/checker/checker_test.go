package checker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treefang/mafcheck/internal/checker"
)

const feasibleInstance = `#p 1 7
(((1,2),(3,4)),(5,(6,7)));
`

func TestCheck_Feasible(t *testing.T) {
	t.Parallel()

	solution := `(((1,2),3),5);
4;
(6,7);
`

	result, err := checker.Check(
		strings.NewReader(feasibleInstance),
		strings.NewReader(solution),
		checker.Options{},
	)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Solution.NumTrees())
	require.Len(t, result.Forests, 1)
	assert.Len(t, result.Forests[0].Roots(), 3)
}

func TestCheck_TrivialSolution(t *testing.T) {
	t.Parallel()

	// Seven singleton components always agree with any host.
	solution := "1;\n2;\n3;\n4;\n5;\n6;\n7;\n"

	result, err := checker.Check(
		strings.NewReader(feasibleInstance),
		strings.NewReader(solution),
		checker.Options{},
	)
	require.NoError(t, err)

	assert.Equal(t, 7, result.Solution.NumTrees())
}

func TestCheck_IdentitySolution(t *testing.T) {
	t.Parallel()

	solution := "(((1,2),(3,4)),(5,(6,7)));\n"

	_, err := checker.Check(
		strings.NewReader(feasibleInstance),
		strings.NewReader(solution),
		checker.Options{},
	)
	require.NoError(t, err)
}

func TestCheck_Mismatch(t *testing.T) {
	t.Parallel()

	solution := `((1,5),3);
2;
4;
6;
7;
`

	_, err := checker.Check(
		strings.NewReader(feasibleInstance),
		strings.NewReader(solution),
		checker.Options{},
	)

	var mismatchErr *checker.MismatchError
	require.ErrorAs(t, err, &mismatchErr)
	assert.Equal(t, 2, mismatchErr.InstanceLine)
	assert.Equal(t, 1, mismatchErr.SolutionLine)
}

func TestCheck_MismatchOnSecondHostTree(t *testing.T) {
	t.Parallel()

	instance := `#p 2 4
((1,2),(3,4));
((1,3),(2,4));
`
	// (1,2) is a clade of the first host tree but not of the second.
	solution := "((1,2),(3,4));\n"

	_, err := checker.Check(
		strings.NewReader(instance),
		strings.NewReader(solution),
		checker.Options{},
	)

	var mismatchErr *checker.MismatchError
	require.ErrorAs(t, err, &mismatchErr)
	assert.Equal(t, 3, mismatchErr.InstanceLine)
	assert.Equal(t, 1, mismatchErr.SolutionLine)
}

func TestCheck_SolutionLeafCoverage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		solution string
	}{
		{name: "missing_leaf", solution: "(((1,2),3),5);\n(6,7);\n"},
		{name: "duplicate_leaf", solution: "(((1,2),3),5);\n4;\n4;\n(6,7);\n"},
		{name: "label_out_of_range", solution: "(((1,2),3),5);\n4;\n(6,8);\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := checker.Check(
				strings.NewReader(feasibleInstance),
				strings.NewReader(tt.solution),
				checker.Options{},
			)
			require.Error(t, err)
		})
	}
}

func TestCheckFiles_MissingInstance(t *testing.T) {
	t.Parallel()

	_, err := checker.CheckFiles("testdata/does-not-exist.txt", "also-missing.txt", checker.Options{})
	require.Error(t, err)
}

func TestCheck_KeepInstance(t *testing.T) {
	t.Parallel()

	solution := "(((1,2),(3,4)),(5,(6,7)));\n"

	result, err := checker.Check(
		strings.NewReader(feasibleInstance),
		strings.NewReader(solution),
		checker.Options{KeepInstance: true},
	)
	require.NoError(t, err)

	require.NotNil(t, result.Instance)
	assert.Equal(t, uint32(1), result.Instance.NumTrees())
	assert.Equal(t, uint32(7), result.Instance.NumLeaves)
}
