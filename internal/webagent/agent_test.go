package webagent

import (
	"errors"
	"testing"
	"time"
)

func TestSelector_CSS(t *testing.T) {
	tests := []struct {
		name    string
		sel     Selector
		want    string
		wantErr bool
	}{
		{"id", ByID("updated-at"), `[id="updated-at"]`, false},
		{"name with brackets", ByName("mfid_user[email]"), `[name="mfid_user[email]"]`, false},
		{"class", ByClass("submitBtn"), ".submitBtn", false},
		{"tag", ByTag("tr"), "tr", false},
		{"css", ByCSS("td.note"), "td.note", false},
		{"xpath has no css form", ByXPath("/html/body"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.sel.CSS()
			if (err != nil) != tt.wantErr {
				t.Fatalf("CSS() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CSS() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelector_String(t *testing.T) {
	if got := ByID("info").String(); got != "#info" {
		t.Errorf("String() = %q, want %q", got, "#info")
	}
	if got := ByXPath("/html").String(); got != "xpath:/html" {
		t.Errorf("String() = %q, want %q", got, "xpath:/html")
	}
}

func TestTimeouts_WithDefaults(t *testing.T) {
	got := Timeouts{Element: 3 * time.Second}.withDefaults()
	if got.Element != 3*time.Second {
		t.Errorf("Element = %s, want 3s", got.Element)
	}
	if got.PageLoad != DefaultTimeouts.PageLoad {
		t.Errorf("PageLoad = %s, want %s", got.PageLoad, DefaultTimeouts.PageLoad)
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound(ByClass("note-cash"))
	if !errors.Is(err, ErrElementNotFound) {
		t.Errorf("Expected ErrElementNotFound, got %v", err)
	}
}
