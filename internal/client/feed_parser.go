package client

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"ymlfeed/report/internal/domain"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

var xmlEncodingRegex = regexp.MustCompile(`^\s*<\?xml[^>]*encoding=["']([A-Za-z0-9._-]+)["']`)

// ParseFeed extracts categories and offer references from a catalog document.
//
// The document goes through the HTML tokenizer of goquery, which lower-cases
// tag and attribute names: parentId is read as parentid and categoryId as
// categoryid.
func ParseFeed(raw []byte) (*domain.Feed, error) {
	reader, err := decodeReader(raw)
	if err != nil {
		return nil, &domain.MalformedFeedError{Reason: "unsupported encoding", Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, &domain.MalformedFeedError{Reason: "failed to parse document", Err: err}
	}

	// Categories and offers live under <shop>; fall back to the whole document
	scope := doc.Find("shop").First()
	if scope.Length() == 0 {
		scope = doc.Selection
	}

	if scope.Find("categories").Length() == 0 {
		return nil, &domain.MalformedFeedError{Reason: "no categories element found"}
	}

	feed := &domain.Feed{
		Categories: extractCategories(scope),
		Offers:     extractOffers(scope),
	}

	log.Debugf("Parsed feed with %d categories and %d offers", len(feed.Categories), len(feed.Offers))
	return feed, nil
}

func extractCategories(scope *goquery.Selection) []domain.CategoryRecord {
	nodes := scope.Find("categories category")
	records := make([]domain.CategoryRecord, 0, nodes.Length())

	nodes.Each(func(i int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		parentID, _ := s.Attr("parentid")
		parentID = strings.TrimSpace(parentID)

		records = append(records, domain.CategoryRecord{
			ID:        strings.TrimSpace(id),
			ParentID:  parentID,
			HasParent: parentID != "",
			Label:     ownText(s),
		})
	})

	return records
}

func extractOffers(scope *goquery.Selection) []domain.OfferRef {
	nodes := scope.Find("offers offer")
	offers := make([]domain.OfferRef, 0, nodes.Length())
	skipped := 0

	nodes.Each(func(i int, s *goquery.Selection) {
		ref := s.Find("categoryid").First()
		if ref.Length() == 0 {
			skipped++
			return
		}
		offers = append(offers, domain.OfferRef{CategoryID: strings.TrimSpace(ref.Text())})
	})

	if skipped > 0 {
		log.Warnf("⚠️ Skipped %d offers without categoryId", skipped)
	}

	return offers
}

// ownText returns the text directly inside s. A self-closed <category/> makes
// the tokenizer nest the following categories inside it, so descendant text is
// ignored.
func ownText(s *goquery.Selection) string {
	var sb strings.Builder
	s.Contents().Each(func(i int, c *goquery.Selection) {
		switch node := c.Nodes[0]; node.Type {
		case html.TextNode:
			sb.WriteString(node.Data)
		case html.CommentNode:
			// The HTML tokenizer reads <![CDATA[x]]> as a comment holding "[CDATA[x]]".
			if text, ok := strings.CutPrefix(node.Data, "[CDATA["); ok {
				sb.WriteString(strings.TrimSuffix(text, "]]"))
			}
		}
	})
	return strings.TrimSpace(sb.String())
}

// decodeReader converts the document to UTF-8 according to its XML declaration.
func decodeReader(raw []byte) (io.Reader, error) {
	r := bytes.NewReader(raw)

	matches := xmlEncodingRegex.FindSubmatch(raw)
	if len(matches) < 2 {
		return r, nil
	}

	label := strings.ToLower(string(matches[1]))
	if label == "utf-8" || label == "utf8" {
		return r, nil
	}

	return charset.NewReaderLabel(label, r)
}
