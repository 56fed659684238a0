package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		rawID      string
		expectErr  bool
		expectedID string
	}{
		{name: "simple id", rawID: "fever", expectedID: "fever"},
		{name: "snake case with digits", rawID: "phlegm_rust2", expectedID: "phlegm_rust2"},
		{name: "surrounding whitespace is trimmed", rawID: "  cough \t", expectedID: "cough"},
		{name: "error - empty string", rawID: "", expectErr: true},
		{name: "error - only whitespace", rawID: "   ", expectErr: true},
		{name: "error - upper case", rawID: "Cough", expectErr: true},
		{name: "error - leading digit", rawID: "2cough", expectErr: true},
		{name: "error - hyphen", rawID: "cough-dry", expectErr: true},
		{name: "error - dotted path", rawID: "step.cough", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := Parse(tc.rawID)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedID, id)
			assert.True(t, Valid(id))
		})
	}
}

func TestParseState(t *testing.T) {
	for _, ok := range []string{"yes", "no", "abnormal", "high-grade", "0"} {
		_, err := ParseState(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "Yes", "-low", "a b"} {
		_, err := ParseState(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseAssignment(t *testing.T) {
	id, value, err := ParseAssignment("xray=abnormal")
	require.NoError(t, err)
	assert.Equal(t, "xray", id)
	assert.Equal(t, "abnormal", value)

	_, _, err = ParseAssignment("xray")
	assert.ErrorContains(t, err, "expected id=value")

	_, _, err = ParseAssignment("X=yes")
	assert.ErrorContains(t, err, "invalid identifier")

	_, _, err = ParseAssignment("xray=")
	assert.ErrorContains(t, err, "state cannot be empty")
}

func TestParseAssignments(t *testing.T) {
	got, err := ParseAssignments([]string{"smoking=yes,cough=no", "fever=yes", "cough=yes", ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"smoking": "yes", "cough": "yes", "fever": "yes"}, got)

	_, err = ParseAssignments([]string{"smoking=yes,bogus"})
	assert.Error(t, err)
}
