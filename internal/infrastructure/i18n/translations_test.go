package i18n

import "testing"

func TestLabelPerLocale(t *testing.T) {
	tr := NewTranslator("english", nil)

	if got := tr.Label("english", "buyer"); got != "Buyer" {
		t.Errorf("english buyer = %q", got)
	}
	if got := tr.Label("hindi", "buyer"); got != "खरीदार" {
		t.Errorf("hindi buyer = %q", got)
	}
	if got := tr.Label("marathi", "buyer"); got != "खरेदीदार" {
		t.Errorf("marathi buyer = %q", got)
	}
}

func TestLabelFallbacks(t *testing.T) {
	tr := NewTranslator("english", nil)

	// Unknown locale falls back to the default locale.
	if got := tr.Label("french", "send"); got != "Send" {
		t.Errorf("unknown locale = %q, want Send", got)
	}
	// Unknown key falls back to the key itself.
	if got := tr.Label("english", "does_not_exist"); got != "does_not_exist" {
		t.Errorf("unknown key = %q", got)
	}
}

func TestLabelsCatalog(t *testing.T) {
	tr := NewTranslator("marathi", nil)

	labels := tr.Labels("marathi")
	if len(labels) != len(labelKeys) {
		t.Fatalf("expected %d labels, got %d", len(labelKeys), len(labels))
	}
	if labels["title"] != "बहुभाषिक मंडी" {
		t.Errorf("marathi title = %q", labels["title"])
	}
}
