package edgar

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"

	apierrors "counselfinder/internal/errors"
	"counselfinder/pkg/contracts/domain"
)

const (
	// minDocumentChars rejects documents too short to carry a counsel
	// section (index pages, stubs)
	minDocumentChars = 5000

	// maxDocumentChars bounds the text handed to extraction; counsel
	// sections sit near the top of a filing
	maxDocumentChars = 25000
)

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	blankLinesRe  = regexp.MustCompile(`\n{3,}`)
	spacesRe      = regexp.MustCompile(`[ \t]+`)
)

// DocumentText fetches a filing's primary document and returns its
// plain text, truncated to the extraction window. Documents shorter than
// the minimum return ErrNoDocumentText.
func (c *Client) DocumentText(ctx context.Context, cik string, filing domain.Filing) (string, error) {
	resp, err := c.get(ctx, c.documentURL(cik, filing), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d fetching %s %s",
			apierrors.ErrNoDocumentText, resp.StatusCode, filing.Type, filing.Date)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apierrors.WrapUpstream("EDGAR", err)
	}

	text := StripHTML(string(body))
	if len(text) < minDocumentChars {
		return "", fmt.Errorf("%w: %s %s", apierrors.ErrNoDocumentText, filing.Type, filing.Date)
	}
	if len(text) > maxDocumentChars {
		text = text[:maxDocumentChars]
	}
	return text, nil
}

// documentURL builds the archive URL for a filing's primary document.
// CIK is unpadded in archive paths; accession numbers lose their dashes.
func (c *Client) documentURL(cik string, filing domain.Filing) string {
	accession := strings.ReplaceAll(filing.Accession, "-", "")
	trimmedCIK := strings.TrimLeft(strings.TrimSpace(cik), "0")
	if filing.PrimaryDoc != "" {
		return fmt.Sprintf("%s/%s/%s/%s", c.ArchivesURL, trimmedCIK, accession, filing.PrimaryDoc)
	}
	return fmt.Sprintf("%s/%s/%s/%s.htm", c.ArchivesURL, trimmedCIK, accession, filing.Accession)
}

// StripHTML converts an HTML document to newline-separated plain text.
// Tags become line breaks so name-above-firm layouts survive for the
// line-oriented extraction patterns.
func StripHTML(doc string) string {
	text := scriptStyleRe.ReplaceAllString(doc, "\n")
	text = tagRe.ReplaceAllString(text, "\n")
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	// Trim each line and drop runs of blanks
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spacesRe.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
