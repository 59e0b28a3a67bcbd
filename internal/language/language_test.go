package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		language string
		wantCode string
		wantRTL  bool
		wantSeg  bool
		wantErr  bool
	}{
		{
			name:     "Spanish",
			language: "Spanish",
			wantCode: "spa",
		},
		{
			name:     "Japanese needs segmentation",
			language: "Japanese",
			wantCode: "jpn",
			wantSeg:  true,
		},
		{
			name:     "Arabic is right to left",
			language: "Arabic",
			wantCode: "ara",
			wantRTL:  true,
		},
		{
			name:     "unknown language",
			language: "Klingon",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, err := Lookup(tt.language)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, lang.Code)
			assert.Equal(t, tt.wantRTL, lang.RightToLeft)
			assert.Equal(t, tt.wantSeg, lang.NeedsSegmentation)
		})
	}
}

func TestNames(t *testing.T) {
	names := Names()
	require.NotEmpty(t, names)
	assert.IsType(t, []string{}, names)
	assert.Contains(t, names, "Spanish")

	// alphabetical order
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}
