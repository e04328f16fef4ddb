package render

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/russross/blackfriday"
)

const extensions = blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
	blackfriday.EXTENSION_STRIKETHROUGH |
	blackfriday.EXTENSION_FENCED_CODE |
	blackfriday.EXTENSION_AUTOLINK |
	blackfriday.EXTENSION_HARD_LINE_BREAK

// telegramRenderer narrows the HTML renderer to the tags Telegram accepts in
// HTML parse mode. Everything else falls through to the embedded renderer.
type telegramRenderer struct {
	blackfriday.Renderer
	item int
}

// TelegramHTML converts LLM markdown into Telegram-safe HTML.
func TelegramHTML(markdown string) string {
	r := &telegramRenderer{Renderer: blackfriday.HtmlRenderer(0, "", "")}
	out := blackfriday.Markdown([]byte(markdown), r, extensions)
	return strings.TrimSpace(string(out))
}

func (r *telegramRenderer) Header(out *bytes.Buffer, text func() bool, level int, id string) {
	marker := out.Len()
	out.WriteString("<b>")
	if !text() {
		out.Truncate(marker)
		return
	}
	out.WriteString("</b>\n\n")
}

func (r *telegramRenderer) Paragraph(out *bytes.Buffer, text func() bool) {
	marker := out.Len()
	if !text() {
		out.Truncate(marker)
		return
	}
	out.WriteString("\n\n")
}

func (r *telegramRenderer) List(out *bytes.Buffer, text func() bool, flags int) {
	marker := out.Len()
	r.item = 0
	if !text() {
		out.Truncate(marker)
		return
	}
	out.WriteString("\n")
}

func (r *telegramRenderer) ListItem(out *bytes.Buffer, text []byte, flags int) {
	r.item++
	if flags&blackfriday.LIST_TYPE_ORDERED != 0 {
		out.WriteString(strconv.Itoa(r.item) + ". ")
	} else {
		out.WriteString("• ")
	}
	out.Write(bytes.TrimSpace(text))
	out.WriteString("\n")
}

func (r *telegramRenderer) HRule(out *bytes.Buffer) {
	out.WriteString("\n")
}

func (r *telegramRenderer) LineBreak(out *bytes.Buffer) {
	out.WriteString("\n")
}

func (r *telegramRenderer) Emphasis(out *bytes.Buffer, text []byte) {
	wrap(out, "i", text)
}

func (r *telegramRenderer) DoubleEmphasis(out *bytes.Buffer, text []byte) {
	wrap(out, "b", text)
}

func (r *telegramRenderer) TripleEmphasis(out *bytes.Buffer, text []byte) {
	out.WriteString("<b><i>")
	out.Write(text)
	out.WriteString("</i></b>")
}

func (r *telegramRenderer) StrikeThrough(out *bytes.Buffer, text []byte) {
	wrap(out, "s", text)
}

func (r *telegramRenderer) CodeSpan(out *bytes.Buffer, text []byte) {
	out.WriteString("<code>")
	escape(out, text)
	out.WriteString("</code>")
}

func (r *telegramRenderer) Image(out *bytes.Buffer, link []byte, title []byte, alt []byte) {
	escape(out, alt)
}

func (r *telegramRenderer) RawHtmlTag(out *bytes.Buffer, tag []byte) {
	escape(out, tag)
}

func wrap(out *bytes.Buffer, tag string, text []byte) {
	out.WriteString("<" + tag + ">")
	out.Write(text)
	out.WriteString("</" + tag + ">")
}

func escape(out *bytes.Buffer, text []byte) {
	for _, c := range text {
		switch c {
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		case '&':
			out.WriteString("&amp;")
		default:
			out.WriteByte(c)
		}
	}
}
