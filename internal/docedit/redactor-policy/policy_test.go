package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"editor vocabulary kept", "<p><strong>a</strong><em>b</em></p>", "<p><strong>a</strong><em>b</em></p>"},
		{"attributes dropped", `<p class="x" style="color:red">a</p>`, "<p>a</p>"},
		{"script removed", "<p>a</p><script>alert(1)</script>", "<p>a</p>"},
		{"unknown tag unwrapped", "<p><a href=\"https://x\">link</a></p>", "<p>link</p>"},
		{"table kept", "<table><tr><td>1</td></tr></table>", "<table><tr><td>1</td></tr></table>"},
		{"invisible chars", "<p>a\u200Bb\uFEFF</p>", "<p>ab</p>"},
		{
			"issue mention",
			`<p>см. <span data-type="issueLinkMention" data-slug="ws" data-project-identifier="PRJ" data-current-issue-id="12">PRJ-12</span></p>`,
			"<p>см. &lt;ссылка на задачу ws/PRJ-12&gt;</p>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestProcessCustomHtmlTag(t *testing.T) {
	in := `<p>см. <span data-type="issueLinkMention" data-slug="ws" data-project-identifier="PRJ" data-current-issue-id="12">PRJ-12</span></p>`
	assert.Equal(t, "<p>см. &lt;ссылка на задачу ws/PRJ-12&gt;</p>", ProcessCustomHtmlTag(in))

	// без идентификаторов упоминание не заменяется
	in = `<p><span data-type="issueLinkMention">x</span></p>`
	assert.Equal(t, in, ProcessCustomHtmlTag(in))

	plain := "<p>no mentions</p>"
	assert.Equal(t, plain, ProcessCustomHtmlTag(plain))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "ab", StripTags("<p><strong>a</strong></p><ul><li>b</li></ul>"))
	assert.Contains(t, StripTags(`<p><span data-type="issueLinkMention" data-slug="ws" data-project-identifier="PRJ" data-current-issue-id="7">PRJ-7</span></p>`), "ссылка на задачу ws/PRJ-7")
}
