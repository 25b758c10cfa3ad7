package langdetect

import (
	"testing"

	translation "mandi/internal/domain/entity/translation"
)

func TestDetect(t *testing.T) {
	detector := NewLatinDetector()

	tests := []struct {
		text string
		want translation.Language
	}{
		{"Can you do 2400?", translation.English},
		{"नमस्कार, भाव काय आहे?", translation.Marathi},
		{"2400?", translation.Marathi}, // digits alone carry no signal
		{"", translation.Marathi},
		{"भाव 2400 ok?", translation.English}, // one Latin letter wins
	}

	for _, tt := range tests {
		if got := detector.Detect(tt.text); got != tt.want {
			t.Errorf("Detect(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}
