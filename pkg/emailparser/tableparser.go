package emailparser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TableParser indexes label/value pairs from table rows in an email body.
// Bank notification emails commonly lay out transaction details as a two-cell
// table row ("Amount:" | "SGD 100.50"); the first cell's trimmed text becomes
// the lookup key.
type TableParser struct {
	fields map[string]string
}

func NewTableParser(body string) *TableParser {
	fields := make(map[string]string)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err == nil {
		doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			tds := tr.Find("td")
			if tds.Length() >= 2 {
				key := strings.TrimSpace(tds.Eq(0).Text())
				fields[key] = strings.TrimSpace(tds.Eq(1).Text())
			}
		})
	}

	return &TableParser{fields: fields}
}

// FindValue returns the value cell for a label cell. A missing label is a
// parse-continuation signal for the caller, not an error.
func (p *TableParser) FindValue(label string) (string, bool) {
	v, ok := p.fields[label]
	return v, ok
}

// ExtractStrongField pulls the text that follows a bold label, for emails
// that encode fields as "<strong>From:</strong> Jane Doe" within prose.
func ExtractStrongField(body, field string) (string, bool) {
	re, err := regexp.Compile(`(?i)<strong>\s*` + regexp.QuoteMeta(field) + `:\s*</strong>\s*([^<]*)`)
	if err != nil {
		return "", false
	}

	m := re.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}

	v := strings.TrimSpace(m[1])
	if v == "" {
		return "", false
	}

	return v, true
}

// ExtractLabeledField pulls the text that follows an inline "Label:" token,
// capturing up to the next tag. Used for formats that list fields as
// "Amount: SGD61.80 <br>" lines inside a paragraph.
func ExtractLabeledField(body, field string) (string, bool) {
	pattern := fmt.Sprintf(`(?i)%s:\s*([^<]*)`, labeledFieldPattern(field))

	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", false
	}

	m := re.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}

	v := strings.TrimSpace(m[1])
	if v == "" {
		return "", false
	}

	return v, true
}

// labeledFieldPattern quotes a label, allowing "&" to appear entity-encoded
// in raw HTML ("Date & Time" arrives as "Date &amp; Time").
func labeledFieldPattern(field string) string {
	parts := strings.Split(field, "&")
	for i := range parts {
		parts[i] = regexp.QuoteMeta(strings.TrimSpace(parts[i]))
	}

	return strings.Join(parts, `\s*&(?:amp;)?\s*`)
}
