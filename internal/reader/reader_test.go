package reader_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treefang/mafcheck/internal/lint"
	"github.com/treefang/mafcheck/internal/reader"
)

func TestReadInstance_Valid(t *testing.T) {
	t.Parallel()

	input := `# a comment
#p 2 4
((1,2),(3,4));
(1,(2,(3,4)));
`

	instance, err := reader.ReadInstance(strings.NewReader(input), false)
	require.NoError(t, err)

	assert.Equal(t, uint32(2), instance.NumTrees())
	assert.Equal(t, uint32(4), instance.NumLeaves)
	assert.Equal(t, 3, instance.Trees[0].Line)
	assert.Equal(t, 4, instance.Trees[1].Line)
}

func TestReadInstance_InnerIdentitiesDisjointPerTree(t *testing.T) {
	t.Parallel()

	input := "#p 2 4\n((1,2),(3,4));\n((1,2),(3,4));\n"

	instance, err := reader.ReadInstance(strings.NewReader(input), false)
	require.NoError(t, err)

	// Inner identities start at 1+numLeaves and advance by numLeaves per
	// tree line, so the two hosts never share an inner node identity.
	assert.Equal(t, uint32(7), uint32(instance.Trees[0].Root.ID()))
	assert.Equal(t, uint32(11), uint32(instance.Trees[1].Root.ID()))
}

func TestReadInstance_StrideLines(t *testing.T) {
	t.Parallel()

	input := `#p 1 2
#s solver: {"name": "greedy", "seed": 7}
(1,2);
`

	instance, err := reader.ReadInstance(strings.NewReader(input), false)
	require.NoError(t, err)

	require.Len(t, instance.StrideLines, 1)
	assert.Equal(t, "solver", instance.StrideLines[0].Key)
	assert.JSONEq(t, `{"name": "greedy", "seed": 7}`, string(instance.StrideLines[0].Value))
}

func TestReadInstance_CommentsAndBlanksSkipped(t *testing.T) {
	t.Parallel()

	input := "#\n# free text\n#p 1 2\n\n(1,2);\n"

	instance, err := reader.ReadInstance(strings.NewReader(input), false)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), instance.NumTrees())
}

func TestReadInstance_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		checkFn func(t *testing.T, err error)
	}{
		{
			name:  "no_header",
			input: "# only a comment\n",
			checkFn: func(t *testing.T, err error) {
				var target *reader.NoHeaderFoundError
				assert.ErrorAs(t, err, &target)
			},
		},
		{
			name:  "tree_before_header",
			input: "(1,2);\n#p 1 2\n",
			checkFn: func(t *testing.T, err error) {
				var target *reader.NoHeaderBeforeFirstTreeError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, 1, target.Line)
			},
		},
		{
			name:  "duplicate_header",
			input: "#p 1 2\n#p 1 2\n(1,2);\n",
			checkFn: func(t *testing.T, err error) {
				var target *reader.DuplicateHeaderError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, 2, target.Line)
			},
		},
		{
			name:  "malformed_header",
			input: "#p one 2\n(1,2);\n",
			checkFn: func(t *testing.T, err error) {
				var target *reader.MalformedHeaderError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, 1, target.Line)
			},
		},
		{
			name:  "invalid_newick",
			input: "#p 1 2\n((1,2);\n",
			checkFn: func(t *testing.T, err error) {
				var target *reader.InvalidNewickError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, 2, target.Line)
			},
		},
		{
			name:  "tree_count_mismatch",
			input: "#p 2 2\n(1,2);\n",
			checkFn: func(t *testing.T, err error) {
				var target *reader.TreeCountMismatchError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, 2, target.Expected)
				assert.Equal(t, 1, target.Found)
			},
		},
		{
			name:  "leaf_coverage",
			input: "#p 1 3\n(1,2);\n",
			checkFn: func(t *testing.T, err error) {
				var target *reader.InvalidLeafLabelsError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, 1, target.TreeIndex)

				var tooFew *lint.TooFewLeavesError
				assert.ErrorAs(t, err, &tooFew)
			},
		},
		{
			name:  "unrecognized_dash_line",
			input: "#p 1 2\n#x nonsense\n(1,2);\n",
			checkFn: func(t *testing.T, err error) {
				var target *reader.UnrecognizedDashLineError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, 2, target.Line)
			},
		},
		{
			name:  "unrecognized_line",
			input: "#p 1 2\nhello\n(1,2);\n",
			checkFn: func(t *testing.T, err error) {
				var target *reader.UnrecognizedLineError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, 2, target.Line)
			},
		},
		{
			name:  "invalid_stride_json",
			input: "#p 1 2\n#s meta: {broken\n(1,2);\n",
			checkFn: func(t *testing.T, err error) {
				var target *reader.JSONSyntaxError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, 2, target.Line)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := reader.ReadInstance(strings.NewReader(tt.input), false)
			require.Error(t, err)
			tt.checkFn(t, err)
		})
	}
}

func TestReadInstance_ParanoidWhitespace(t *testing.T) {
	t.Parallel()

	input := "#p 1 2\n  (1,2);\n"

	// Tolerated by default.
	_, err := reader.ReadInstance(strings.NewReader(input), false)
	require.NoError(t, err)

	// Fatal under paranoid.
	_, err = reader.ReadInstance(strings.NewReader(input), true)

	var warning *reader.ExtraWhitespaceWarning
	require.ErrorAs(t, err, &warning)
	assert.Equal(t, 2, warning.Line)
}

func TestReadInstance_CarriageReturnsStripped(t *testing.T) {
	t.Parallel()

	input := "#p 1 2\r\n(1,2);\r\n"

	_, err := reader.ReadInstance(strings.NewReader(input), true)
	require.NoError(t, err)
}

func TestReadSolution_Valid(t *testing.T) {
	t.Parallel()

	input := "(((1,2),3),5);\n4;\n(6,7);\n"

	solution, err := reader.ReadSolution(strings.NewReader(input), 7, false)
	require.NoError(t, err)

	assert.Equal(t, 3, solution.NumTrees())
	assert.Equal(t, 1, solution.Trees[0].Line)
	assert.Equal(t, 3, solution.Trees[2].Line)
}

func TestReadSolution_UnrecognizedLinesAreWarnings(t *testing.T) {
	t.Parallel()

	input := "hello\n#x nonsense\n(1,2);\n"

	// Tolerated by default.
	solution, err := reader.ReadSolution(strings.NewReader(input), 2, false)
	require.NoError(t, err)
	assert.Equal(t, 1, solution.NumTrees())

	// Fatal under paranoid.
	_, err = reader.ReadSolution(strings.NewReader(input), 2, true)
	require.Error(t, err)
}

func TestReadSolution_HeaderIsWarning(t *testing.T) {
	t.Parallel()

	input := "#p 1 2\n(1,2);\n"

	_, err := reader.ReadSolution(strings.NewReader(input), 2, false)
	require.NoError(t, err)

	_, err = reader.ReadSolution(strings.NewReader(input), 2, true)

	var warning *reader.FoundHeaderWarning
	require.ErrorAs(t, err, &warning)
	assert.Equal(t, 1, warning.Line)
}

func TestReadSolution_InvalidNewickIsError(t *testing.T) {
	t.Parallel()

	input := "((1,2;\n"

	_, err := reader.ReadSolution(strings.NewReader(input), 2, false)

	var target *reader.InvalidNewickError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, 1, target.Line)
}

func TestReadSolution_LeafCoverage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		numLeaves uint32
	}{
		{name: "missing_leaf", input: "(1,2);\n", numLeaves: 3},
		{name: "duplicate_leaf", input: "(1,2);\n(2,3);\n", numLeaves: 3},
		{name: "out_of_range", input: "(1,4);\n", numLeaves: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := reader.ReadSolution(strings.NewReader(tt.input), tt.numLeaves, false)

			var target *reader.InvalidSolutionLeavesError
			assert.ErrorAs(t, err, &target)
		})
	}
}

func TestReadSolution_LeafIdentityEqualsLabel(t *testing.T) {
	t.Parallel()

	solution, err := reader.ReadSolution(strings.NewReader("(1,2);\n"), 2, false)
	require.NoError(t, err)

	root := solution.Trees[0].Root
	left, right := root.Children()

	assert.Equal(t, uint32(1), uint32(left.ID()))
	assert.Equal(t, uint32(2), uint32(right.ID()))
	assert.Equal(t, uint32(0), uint32(root.ID()))
}
