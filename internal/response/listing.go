package response

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// listingShell is the page every directory listing is rendered into.
// Entries are appended to the ul with class "listing".
const listingShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Directory Listing</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; border-bottom: 1px solid #ccc; padding-bottom: .3em; }
ul.listing { list-style: none; padding: 0; }
ul.listing li { padding: .3em .5em; border-bottom: 1px solid #eee; }
ul.listing li:hover { background: #f5f5f5; }
ul.listing a { text-decoration: none; color: #0366d6; }
</style>
</head>
<body>
<h1>Directory Listing</h1>
<ul class="listing"></ul>
</body>
</html>
`

// RenderListing renders paths as anchors inside the listing page.
// Each path is used verbatim as the link text and, prefixed with "/", as the href.
func RenderListing(paths []string) ([]byte, error) {
	doc, err := html.Parse(strings.NewReader(listingShell))
	if err != nil {
		return nil, err
	}
	list := findList(doc)
	if list == nil {
		return nil, fmt.Errorf("listing shell has no list element")
	}

	items := lo.Map(paths, func(p string, _ int) *html.Node {
		return entryNode(p)
	})
	for _, item := range items {
		list.AppendChild(item)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// entryNode builds <li><a href="/path">path</a></li>.
func entryNode(path string) *html.Node {
	a := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr:     []html.Attribute{{Key: "href", Val: "/" + path}},
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: path})

	li := &html.Node{
		Type:     html.ElementNode,
		Data:     "li",
		DataAtom: atom.Li,
	}
	li.AppendChild(a)
	return li
}

func findList(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Ul {
		for _, attr := range n.Attr {
			if attr.Key == "class" && attr.Val == "listing" {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findList(c); found != nil {
			return found
		}
	}
	return nil
}

// ListingMarkdown converts a rendered listing page to Markdown, keeping the
// heading and the links.
func ListingMarkdown(page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse listing: %w", err)
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		return "", fmt.Errorf("listing has no body")
	}
	converter := md.NewConverter("", true, nil)
	return converter.Convert(body), nil
}
