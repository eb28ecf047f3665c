package builder

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/net/html"

	"hyperflow/pkg/dom"
	"hyperflow/pkg/layout"
	"hyperflow/pkg/style"
	"hyperflow/pkg/text"
)

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return strings.TrimSpace(a.Val), true
		}
	}
	return "", false
}

// intAttr returns the numeric value of key, or 0 when absent or invalid.
func intAttr(n *html.Node, key string) int {
	v, ok := attr(n, key)
	if !ok {
		return 0
	}
	i, _, _ := parseLength(v)
	return i
}

// copyAttrs keeps the attributes scripts may read. Style is consumed by
// the builder.
func copyAttrs(node *dom.Node, n *html.Node) {
	for _, a := range n.Attr {
		if a.Key == "style" || a.Key == "id" {
			continue
		}
		node.SetAttribute(a.Key, a.Val)
	}
}

// parseLength reads "120", "120px" or "50%".
func parseLength(s string) (v int, percent, ok bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if p, cut := strings.CutSuffix(s, "%"); cut {
		s, percent = p, true
	} else {
		s = strings.TrimSuffix(s, "px")
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false, false
	}
	return i, percent, true
}

func parseHAlign(s string) (layout.HAlign, bool) {
	switch strings.ToLower(s) {
	case "left", "start", "justify":
		return layout.AlignLeft, true
	case "center", "middle":
		return layout.AlignCenter, true
	case "right", "end":
		return layout.AlignRight, true
	}
	return layout.AlignLeft, false
}

func parseVAlign(s string) (layout.VAlign, bool) {
	switch strings.ToLower(s) {
	case "top", "texttop":
		return layout.AlignTop, true
	case "middle", "center", "absmiddle":
		return layout.AlignMiddle, true
	case "bottom", "baseline", "absbottom":
		return layout.AlignBottom, true
	}
	return layout.AlignBottom, false
}

// fontSize resolves an HTML size attribute: "+n" and "-n" are relative
// to cur.
func fontSize(v string, cur int) int {
	v = strings.TrimSpace(v)
	n, err := strconv.Atoi(strings.TrimPrefix(v, "+"))
	if err != nil {
		return cur
	}
	if strings.HasPrefix(v, "+") || strings.HasPrefix(v, "-") {
		return cur + n
	}
	return n
}

func (b *Builder) colorAttr(n *html.Node, key string) (color.RGBA, bool) {
	v, ok := attr(n, key)
	if !ok || v == "" {
		return color.RGBA{}, false
	}
	c, ok := style.ParseColor(v)
	if !ok {
		b.logger.Warn("unknown color", "tag", n.Data, "attr", key, "color", v)
	}
	return c, ok
}

func (b *Builder) cssColor(v string) (color.RGBA, bool) {
	c, ok := style.ParseColor(v)
	if !ok {
		b.logger.Warn("unknown color", "color", v)
	}
	return c, ok
}

// inlineStyle parses the declarations of a style attribute. Property
// names are lower case; values keep their spelling.
func inlineStyle(n *html.Node) map[string]string {
	s, ok := attr(n, "style")
	if !ok || s == "" {
		return nil
	}
	decl := make(map[string]string)
	p := css.NewParser(parse.NewInputString(s), true)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			return decl
		case css.DeclarationGrammar:
			var sb strings.Builder
			for _, t := range p.Values() {
				sb.Write(t.Data)
			}
			decl[strings.ToLower(string(data))] = strings.TrimSpace(sb.String())
		}
	}
}

// blockTags take part in text-align.
var blockTags = map[string]bool{
	"p": true, "div": true, "center": true, "body": true, "li": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "blockquote": true,
}

// applyStyle applies the supported inline properties to node and the
// style stack and returns what undoes the stack changes.
func (b *Builder) applyStyle(node *dom.Node, decl map[string]string) []func() {
	if len(decl) == 0 {
		return nil
	}
	w := b.w
	var undo []func()
	if v, ok := decl["color"]; ok {
		if c, ok := b.cssColor(v); ok {
			prev := w.FontColor()
			w.SetColor(c)
			node.Foreground = &c
			undo = append(undo, func() { w.SetColor(prev) })
		}
	}
	if v, ok := decl["background-color"]; ok {
		if c, ok := b.cssColor(v); ok {
			node.Background = &c
		}
	}
	if v, ok := decl["white-space"]; ok {
		if ws, ok := text.ParseWhiteSpace(v); ok {
			node.WhiteSpace = &ws
			if ws == text.Pre || ws == text.PreWrap {
				b.pre++
				undo = append(undo, func() { b.pre-- })
			}
		} else {
			b.logger.Warn("unknown white-space", "value", v)
		}
	}
	if v, ok := decl["font-weight"]; ok {
		bold := strings.EqualFold(v, "bold") || strings.EqualFold(v, "bolder")
		if n, err := strconv.Atoi(v); err == nil {
			bold = n >= 600
		}
		if bold && w.Style().Flags()&style.Bold == 0 {
			w.StartBold()
			undo = append(undo, w.EndBold)
		}
	}
	if v, ok := decl["font-style"]; ok {
		if (strings.EqualFold(v, "italic") || strings.EqualFold(v, "oblique")) && w.Style().Flags()&style.Italic == 0 {
			w.StartItalic()
			undo = append(undo, w.EndItalic)
		}
	}
	if v, ok := decl["text-decoration"]; ok {
		on := strings.Contains(strings.ToLower(v), "underline")
		node.Underline = &on
	}
	if v, ok := decl["font-family"]; ok {
		if exit, ok := b.enterFace(v); ok {
			undo = append(undo, exit)
		}
	}
	if v, ok := decl["text-align"]; ok && blockTags[node.Tag] {
		if h, ok := parseHAlign(v); ok {
			undo = append(undo, b.pushAlign(h))
		}
	}
	return undo
}
