package intake

import (
	"context"
	"testing"

	"github.com/specialistvlad/elevendx/internal/hcl_adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalog(t *testing.T) *Catalog {
	t.Helper()
	network, err := hcl_adapter.Embedded("respiratory").Load(context.Background())
	require.NoError(t, err)
	return NewCatalog(network)
}

func TestQuestionAndLabel(t *testing.T) {
	c := catalog(t)
	assert.Equal(t, "Do you have a history of smoking?", c.Question("smoking"))
	assert.Equal(t, "Has a recent X-ray shown any abnormalities?", c.Question("xray"))
	assert.Equal(t, FallbackQuestion, c.Question("pneumonia"))
	assert.Equal(t, FallbackQuestion, c.Question("ghost"))

	assert.Equal(t, "Lung Cancer", c.Label("cancer"))
	assert.Equal(t, "ghost", c.Label("ghost"))

	e, ok := c.Entry("xray")
	require.True(t, ok)
	assert.Equal(t, []string{"abnormal", "normal"}, e.States)
}

func TestParseAnswer(t *testing.T) {
	yesNo := []string{"yes", "no"}
	xray := []string{"abnormal", "normal"}
	level := []string{"high", "mild", "none"}

	testCases := []struct {
		text   string
		domain []string
		want   string
		ok     bool
	}{
		{"Yes", yesNo, "yes", true},
		{"yeah, for years", yesNo, "yes", true},
		{"sure", yesNo, "yes", true},
		{"Nope.", yesNo, "no", true},
		{"no", yesNo, "no", true},
		{"it came back abnormal", xray, "abnormal", true},
		{"normal", xray, "normal", true},
		{"yes", xray, "abnormal", true},
		{"not really", yesNo, "", false},
		{"I don't know", yesNo, "", false},
		{"", yesNo, "", false},
		{"mild I think", level, "mild", true},
		{"nah", level, "none", true},
		{"yes", nil, "", false},
	}
	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			got, ok := ParseAnswer(tc.text, tc.domain)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScan(t *testing.T) {
	c := catalog(t)

	testCases := []struct {
		name string
		text string
		want map[string]string
	}{
		{
			name: "discharge letter",
			text: "Patient is a 58 year old with a chronic cough. Smokes 20 cigarettes a day. CT shows a 2cm nodule.",
			want: map[string]string{"cough": "yes", "smoking": "yes", "xray": "abnormal"},
		},
		{
			name: "fever via chills",
			text: "Reports CHILLS overnight.",
			want: map[string]string{"fever": "yes"},
		},
		{
			name: "word boundaries",
			text: "A massive amount of paperwork.",
			want: map[string]string{},
		},
		{
			name: "nothing relevant",
			text: "Routine dental check.",
			want: map[string]string{},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Scan(tc.text))
		})
	}
}

func TestNilNetworkCatalog(t *testing.T) {
	c := NewCatalog(nil)
	assert.Equal(t, FallbackQuestion, c.Question("x"))
	assert.Empty(t, c.Scan("cough"))
}
