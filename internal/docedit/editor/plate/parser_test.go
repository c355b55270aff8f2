package plate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
)

func TestParseTextMarks(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantText   string
		wantBold   bool
		wantItalic bool
		wantUnder  bool
		wantStrike bool
	}{
		{
			name:     "bold text",
			json:     `{"text":"Bold","bold":true}`,
			wantText: "Bold",
			wantBold: true,
		},
		{
			name:       "italic text",
			json:       `{"text":"Italic","italic":true}`,
			wantText:   "Italic",
			wantItalic: true,
		},
		{
			name:      "underline text",
			json:      `{"text":"Under","underline":true}`,
			wantText:  "Under",
			wantUnder: true,
		},
		{
			name:       "strike alias",
			json:       `{"text":"Strike","strike":true}`,
			wantText:   "Strike",
			wantStrike: true,
		},
		{
			name:       "all marks",
			json:       `{"text":"All","bold":true,"italic":true,"underline":true,"strikethrough":true}`,
			wantText:   "All",
			wantBold:   true,
			wantItalic: true,
			wantUnder:  true,
			wantStrike: true,
		},
		{
			name:     "unknown marks are ignored",
			json:     `{"text":"Code","code":true,"fontSize":"12px"}`,
			wantText: "Code",
		},
		{
			name:     "false mark",
			json:     `{"text":"Plain","bold":false}`,
			wantText: "Plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var node PlateNode
			if err := json.Unmarshal([]byte(tt.json), &node); err != nil {
				t.Fatalf("Failed to unmarshal JSON: %v", err)
			}

			if !node.IsText() {
				t.Fatal("node is not text")
			}

			text := parseText(node)
			if text.Content != tt.wantText {
				t.Errorf("Content = %q, want %q", text.Content, tt.wantText)
			}
			if text.Bold != tt.wantBold {
				t.Errorf("Bold = %v, want %v", text.Bold, tt.wantBold)
			}
			if text.Italic != tt.wantItalic {
				t.Errorf("Italic = %v, want %v", text.Italic, tt.wantItalic)
			}
			if text.Underline != tt.wantUnder {
				t.Errorf("Underline = %v, want %v", text.Underline, tt.wantUnder)
			}
			if text.Strikethrough != tt.wantStrike {
				t.Errorf("Strikethrough = %v, want %v", text.Strikethrough, tt.wantStrike)
			}
		})
	}
}

func TestUnknownKeysGoToAttrs(t *testing.T) {
	var node PlateNode
	if err := json.Unmarshal([]byte(`{"type":"p","id":"abc","children":[{"text":""}]}`), &node); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if node.Attrs["id"] != "abc" {
		t.Errorf("Attrs[id] = %v, want abc", node.Attrs["id"])
	}
	if node.IsText() {
		t.Error("element parsed as text")
	}
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantKinds []edtypes.Kind
	}{
		{
			name:      "empty value",
			json:      `[]`,
			wantKinds: []edtypes.Kind{edtypes.KindParagraph},
		},
		{
			name:      "paragraph and list",
			json:      `[{"type":"p","children":[{"text":"a"}]},{"type":"ol","children":[{"type":"li","children":[{"text":"b"}]}]}]`,
			wantKinds: []edtypes.Kind{edtypes.KindParagraph, edtypes.KindNumberedList},
		},
		{
			name:      "unknown type becomes paragraph",
			json:      `[{"type":"h1","children":[{"text":"Title"}]}]`,
			wantKinds: []edtypes.Kind{edtypes.KindParagraph},
		},
		{
			name:      "table with header cells",
			json:      `[{"type":"table","children":[{"type":"tr","children":[{"type":"th","children":[{"text":"H"}]}]}]}]`,
			wantKinds: []edtypes.Kind{edtypes.KindTable},
		},
		{
			name:      "stray list items are wrapped",
			json:      `[{"type":"li","children":[{"text":"a"}]},{"type":"li","children":[{"text":"b"}]}]`,
			wantKinds: []edtypes.Kind{edtypes.KindBulletedList},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseJSON(strings.NewReader(tt.json))
			if err != nil {
				t.Fatalf("ParseJSON() error = %v", err)
			}
			if len(doc.Elements) != len(tt.wantKinds) {
				t.Fatalf("len(Elements) = %d, want %d", len(doc.Elements), len(tt.wantKinds))
			}
			for i, kind := range tt.wantKinds {
				if doc.Elements[i].Kind != kind {
					t.Errorf("Elements[%d].Kind = %v, want %v", i, doc.Elements[i].Kind, kind)
				}
			}
			if err := edtypes.Validate(*doc); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestParseJSONListItemContent(t *testing.T) {
	// Элемент "lic" внутри пункта списка сливается с пунктом
	value := `[{"type":"ul","children":[{"type":"li","children":[{"type":"lic","children":[{"text":"item"}]}]}]}]`

	doc, err := ParseJSON(strings.NewReader(value))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}

	item, ok := doc.ElementAt(edtypes.Path{0, 0})
	if !ok || item.Kind != edtypes.KindListItem {
		t.Fatalf("list item not found")
	}
	if len(item.Children) != 1 {
		t.Fatalf("len(Children) = %d, want 1", len(item.Children))
	}
	if text := item.Children[0].(*edtypes.Text); text.Content != "item" {
		t.Errorf("Content = %q, want item", text.Content)
	}
}

func TestParseJSONInvalid(t *testing.T) {
	for _, value := range []string{`{`, `{"type":"p"}`, `[{"text":1}]`} {
		if _, err := ParseJSON(strings.NewReader(value)); err == nil {
			t.Errorf("ParseJSON(%q) expected error", value)
		}
	}
}

func TestFromValueKeepsStructure(t *testing.T) {
	text := "a"
	value := []PlateNode{
		{Type: TypeBulleted},
		{Type: TypeParagraph, Children: []PlateNode{{Text: &text}}},
	}

	doc := FromValue(value)
	if len(doc.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(doc.Elements))
	}
	if err := edtypes.Validate(doc); err == nil {
		t.Error("list without items must not validate")
	}

	if err := edtypes.Validate(edtypes.Normalize(doc)); err != nil {
		t.Errorf("normalized document must validate: %v", err)
	}
}
