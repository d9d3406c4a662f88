package extract

import (
	"regexp"
	"strings"
)

// lawFirmSuffixes are the entity suffixes that mark a law firm name.
var lawFirmSuffixes = []string{"LLP", "LLC", "PLLC", "P.C.", "P.A."}

// lawFirmSuffixPattern is the suffix alternation embedded in the
// extraction patterns.
const lawFirmSuffixPattern = `(?:LLP|LLC|PLLC|P\.C\.|P\.A\.)`

var (
	opinionPrefixRe = regexp.MustCompile(`(?i)^\s*(?:opinion\s+of|opinion)\s+`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	trailingPunctRe = regexp.MustCompile(`[.;:]+$`)
	firmSuffixRe    = regexp.MustCompile(`\b` + lawFirmSuffixPattern + `\b`)
	digitRe         = regexp.MustCompile(`\d`)
	andSeparatorRe  = regexp.MustCompile(`(?i)\s+and\s+`)

	// One collapse regex per suffix stands in for a backreference:
	// "Skadden LLP LLP" becomes "Skadden LLP".
	duplicateSuffixRes = func() []*regexp.Regexp {
		res := make([]*regexp.Regexp, 0, len(lawFirmSuffixes))
		for _, s := range lawFirmSuffixes {
			quoted := regexp.QuoteMeta(s)
			res = append(res, regexp.MustCompile(`(?i)\b(`+quoted+`)\b(?:[\s.,]*`+quoted+`\b)+`))
		}
		return res
	}()

	accountingFirmRes = []*regexp.Regexp{
		regexp.MustCompile(`\bdeloitte\b`),
		regexp.MustCompile(`\bpwc\b`),
		regexp.MustCompile(`\bpricewaterhousecoopers\b`),
		regexp.MustCompile(`\bernst\s*&\s*young\b`),
		regexp.MustCompile(`\bkpmg\b`),
		regexp.MustCompile(`\bey\b`),
	}
)

var investmentBanks = []string{
	"goldman sachs", "morgan stanley", "jp morgan", "jpmorgan",
	"credit suisse", "ubs", "deutsche bank", "barclays",
	"cantor fitzgerald", "oppenheimer", "jefferies", "cowen",
	"stifel", "piper sandler", "raymond james", "roth capital",
	"needham", "wedbush", "craig-hallum", "btig", "maxim group",
}

var firmMetadataTokens = []string{
	"opinion", "date filed", "filed", "dated", "registration statement",
	"statement on", "form", "exhibit", "signature", "address", "street",
	"suite", "city", "state", "zip", "telephone", "tel.", "fax", "email",
	"attention", "re:", "subject",
}

// CleanFirmName strips opinion prefixes, trailing punctuation and
// doubled suffixes from a raw firm match.
func CleanFirmName(firm string) string {
	firm = strings.TrimSpace(firm)
	firm = opinionPrefixRe.ReplaceAllString(firm, "")
	firm = whitespaceRe.ReplaceAllString(firm, " ")
	firm = trailingPunctRe.ReplaceAllString(firm, "")
	for _, re := range duplicateSuffixRes {
		firm = re.ReplaceAllString(firm, "$1")
	}
	return strings.TrimSpace(firm)
}

// NormalizeFirmName canonicalizes a validated firm name: "and" becomes
// "&" and a bare name gets the LLP suffix so variants of the same firm
// collapse to one key.
func NormalizeFirmName(firm string) string {
	firm = CleanFirmName(firm)
	firm = andSeparatorRe.ReplaceAllString(firm, " & ")
	firm = whitespaceRe.ReplaceAllString(firm, " ")
	hasSuffix := false
	for _, s := range lawFirmSuffixes {
		if strings.HasSuffix(firm, s) {
			hasSuffix = true
			break
		}
	}
	if !hasSuffix {
		firm += " LLP"
	}
	return firm
}

// IsValidFirmName reports whether a candidate looks like an external law
// firm: it carries a firm suffix, holds no digits or filing metadata, and
// is not a known non-law-firm.
func IsValidFirmName(firmName, companyName string) bool {
	if firmName == "" {
		return false
	}
	if IsNotLawFirm(firmName, companyName) {
		return false
	}
	if !firmSuffixRe.MatchString(firmName) {
		return false
	}
	if digitRe.MatchString(firmName) {
		return false
	}

	firmLower := strings.ToLower(firmName)
	for _, token := range firmMetadataTokens {
		if strings.Contains(firmLower, token) {
			return false
		}
	}

	return len(strings.Fields(firmName)) <= 8
}

// IsNotLawFirm rejects accounting firms, investment banks, funds, the
// searched company itself, and placeholder strings that LLM responses
// sometimes echo back.
func IsNotLawFirm(firmName, companyName string) bool {
	firmLower := strings.ToLower(firmName)

	if strings.HasPrefix(firmLower, "opinion of") || strings.HasPrefix(firmLower, "opinion ") {
		return true
	}

	for _, garbage := range []string{"law_firms", "lawyers", "law firm", "example", "firm name", "another"} {
		if strings.Contains(firmLower, garbage) {
			return true
		}
	}

	if companyName != "" && strings.Contains(firmLower, strings.ToLower(companyName)) {
		return true
	}

	for _, re := range accountingFirmRes {
		if re.MatchString(firmLower) {
			return true
		}
	}

	for _, bank := range investmentBanks {
		if strings.Contains(firmLower, bank) {
			return true
		}
	}

	if strings.Contains(firmLower, "& co") && !strings.Contains(firmLower, "llp") {
		return true
	}

	for _, keyword := range []string{"fund", "capital", "ventures", "holdings", "trust company"} {
		if strings.Contains(firmLower, keyword) &&
			strings.Contains(firmLower, "llc") && !strings.Contains(firmLower, "llp") {
			return true
		}
	}

	return false
}
