// Политики очистки входящего HTML описаний.
//
// EditorPolicy оставляет только словарь редактора и блочные теги, которые разбираются в параграфы,
// все атрибуты удаляются. StripTagsPolicy оставляет чистый текст для превью.
// Упоминания задач редактора (span data-type="issueLinkMention") заменяются текстовой ссылкой до очистки,
// иначе после удаления атрибутов от них осталась бы пустая обертка.
package policy

import (
	"container/list"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var StripTagsPolicy *bluemonday.Policy = bluemonday.StrictPolicy()
var EditorPolicy *bluemonday.Policy = bluemonday.NewPolicy()

// Теги, которые понимает десериализатор. Прочие блочные теги сохраняются, чтобы их текст стал отдельным параграфом.
var editorElements = []string{
	"p", "br",
	"ul", "ol", "li",
	"table", "thead", "tbody", "tfoot", "tr", "td", "th",
	"strong", "b", "em", "i", "u", "s", "del", "strike",
	"div", "span", "blockquote", "pre",
	"h1", "h2", "h3", "h4", "h5", "h6",
}

func init() {
	EditorPolicy.AllowElements(editorElements...)
}

var invisibleChars = strings.NewReplacer(
	"\u200B", "",
	"\u200C", "",
	"\u200D", "",
	"\uFEFF", "",
)

// Sanitize готовит HTML описания к сохранению.
func Sanitize(value string) string {
	if value == "" {
		return ""
	}
	return RemoveInvisibleChars(EditorPolicy.Sanitize(ProcessCustomHtmlTag(value)))
}

// StripTags возвращает текст без разметки. Сущности остаются экранированными.
func StripTags(value string) string {
	return RemoveInvisibleChars(StripTagsPolicy.Sanitize(ProcessCustomHtmlTag(value)))
}

func RemoveInvisibleChars(s string) string {
	return invisibleChars.Replace(s)
}

// ProcessCustomHtmlTag заменяет упоминания задач текстом вида <ссылка на задачу slug/PROJ-12>.
func ProcessCustomHtmlTag(htmlContent string) string {
	if htmlContent == "" || !strings.Contains(htmlContent, "issueLinkMention") {
		return htmlContent
	}

	nodes, err := html.ParseFragment(strings.NewReader(htmlContent), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return htmlContent
	}

	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	queue := list.New()
	queue.PushBack(root)
	for queue.Len() > 0 {
		element := queue.Front()
		queue.Remove(element)
		node := element.Value.(*html.Node)

		var next *html.Node
		for child := node.FirstChild; child != nil; child = next {
			next = child.NextSibling
			if child.Type == html.ElementNode && child.Data == "span" && isIssueLinkMention(child) {
				replaceIssueLink(child)
			} else if child.FirstChild != nil {
				queue.PushBack(child)
			}
		}
	}

	var result strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&result, c); err != nil {
			return htmlContent
		}
	}
	return result.String()
}

func isIssueLinkMention(node *html.Node) bool {
	for _, attr := range node.Attr {
		if attr.Key == "data-type" && attr.Val == "issueLinkMention" {
			return true
		}
	}
	return false
}

func replaceIssueLink(node *html.Node) {
	var slug, projectID, issueID string
	for _, attr := range node.Attr {
		switch attr.Key {
		case "data-slug":
			slug = attr.Val
		case "data-project-identifier":
			projectID = attr.Val
		case "data-current-issue-id":
			issueID = attr.Val
		}
	}

	// Без идентификаторов упоминание остается обычным span и теряет только атрибуты
	if projectID == "" || issueID == "" {
		return
	}

	node.Parent.InsertBefore(&html.Node{
		Type: html.TextNode,
		Data: fmt.Sprintf("<ссылка на задачу %s/%s-%s>", slug, projectID, issueID),
	}, node)
	node.Parent.RemoveChild(node)
}
