package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{"i contain cool ümläuts.txt", "i_contain_cool_umlauts.txt"},
		{`C:\Users\me\sales data.CSV`, "C_Users_me_sales_data.CSV"},
		{"...", ""},
		{"日本語.csv", "csv"},
		{"  spaced   out .csv ", "spaced_out_.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SecureFilename(tt.in))
		})
	}
}

func TestArtifactFilename(t *testing.T) {
	assert.Equal(t, "unit price_histogram.png", ArtifactFilename("unit price_histogram.png"))
	assert.Equal(t, "a_b_pie.png", ArtifactFilename("a/b_pie.png"))
	assert.Equal(t, "_x_bar.png", ArtifactFilename(`..\x_bar.png`))
	assert.Equal(t, "_", ArtifactFilename(""))
}
