package plate_test

import (
	"fmt"
	"strings"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/plate"
)

// ExampleParseJSON демонстрирует разбор значения редактора Plate.
func ExampleParseJSON() {
	value := `[
		{
			"type": "p",
			"children": [
				{"text": "Привет", "bold": true},
				{"text": " "},
				{"text": "мир", "italic": true}
			]
		},
		{
			"type": "ul",
			"children": [
				{"type": "li", "children": [{"text": "один"}]},
				{"type": "li", "children": [{"text": "два"}]}
			]
		}
	]`

	doc, err := plate.ParseJSON(strings.NewReader(value))
	if err != nil {
		fmt.Printf("Ошибка парсинга: %v\n", err)
		return
	}

	fmt.Printf("Документ содержит %d элементов\n", len(doc.Elements))

	data, _ := plate.Serialize(doc)
	fmt.Println(string(data))

	// Output:
	// Документ содержит 2 элементов
	// [{"type":"p","children":[{"text":"Привет","bold":true},{"text":" "},{"text":"мир","italic":true}]},{"type":"ul","children":[{"type":"li","children":[{"text":"один"}]},{"type":"li","children":[{"text":"два"}]}]}]
}
