package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    ContentDetails
	}{
		{
			name:    "form content",
			content: "Idade: 29 | Prof: Advogada | Área: Jurídico | Canal: Instagram",
			want:    ContentDetails{Age: "29", Profession: "Advogada", AreaOfActivity: "Jurídico", Channel: "Instagram"},
		},
		{
			name:    "with campaign content",
			content: "Idade: 40 | Prof: Médico | Área: Saúde | Canal: Outro | banner_a | v2",
			want:    ContentDetails{Age: "40", Profession: "Médico", AreaOfActivity: "Saúde", Channel: "Outro", Extra: "banner_a | v2"},
		},
		{
			name:    "legacy free text",
			content: "video_1",
			want:    ContentDetails{Extra: "video_1"},
		},
		{
			name: "empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseContent(tt.content))
		})
	}
}
