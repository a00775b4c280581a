package fragments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultTemplate(t *testing.T) {
	assert.Equal(t, NumericResult, ResultTemplate("numeric"))
	assert.Equal(t, TrendResult, ResultTemplate("datetime"))
	assert.Equal(t, CategoricalResult, ResultTemplate("categorical"))
	assert.Equal(t, CategoricalResult, ResultTemplate("unsupported"))
}

func TestIsPage(t *testing.T) {
	assert.False(t, IsPage(Layout))
	for _, name := range GetAllTemplatePaths() {
		if name != Layout {
			assert.True(t, IsPage(name), name)
		}
	}
	assert.False(t, IsPage("partial.tmpl"))
}
