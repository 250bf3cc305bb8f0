package netscape

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/MrSnakeDoc/newtab/internal/domain"
)

// Export writes bookmarks as a Netscape bookmark file with one folder per
// non-empty category, in registry order.
func Export(w io.Writer, bookmarks []domain.Bookmark, reg domain.Registry) error {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, section := range domain.Render(bookmarks, reg) {
		fmt.Fprintf(&b, "    <DT><H3>%s</H3>\n", html.EscapeString(section.Category.Name))
		b.WriteString("    <DL><p>\n")
		for _, tile := range section.Tiles {
			fmt.Fprintf(&b, "        <DT><A HREF=\"%s\">%s</A>\n",
				html.EscapeString(tile.URL),
				html.EscapeString(tile.Name))
		}
		b.WriteString("    </DL><p>\n")
	}

	b.WriteString("</DL><p>\n")

	_, err := io.WriteString(w, b.String())
	return err
}
