package extract

import (
	"regexp"
	"strings"
)

// FirmLawyers maps a normalized law firm name to the set of lawyer names
// extracted for it. A firm with an empty set was identified without any
// individual lawyers.
type FirmLawyers map[string]map[string]struct{}

// Add records a lawyer at a firm.
func (f FirmLawyers) Add(firm, lawyer string) {
	if f[firm] == nil {
		f[firm] = make(map[string]struct{})
	}
	f[firm][lawyer] = struct{}{}
}

// AddFirm records a firm without any lawyers.
func (f FirmLawyers) AddFirm(firm string) {
	if f[firm] == nil {
		f[firm] = make(map[string]struct{})
	}
}

// Merge folds another result set into this one.
func (f FirmLawyers) Merge(other FirmLawyers) {
	for firm, lawyers := range other {
		f.AddFirm(firm)
		for lawyer := range lawyers {
			f[firm][lawyer] = struct{}{}
		}
	}
}

var (
	esqCredentialRe = regexp.MustCompile(`(?i),?\s*Esq\.?`)
	pcCredentialRe  = regexp.MustCompile(`(?i),?\s*P\.C\.?`)
	honorificRe     = regexp.MustCompile(`^(Mr\.|Ms\.|Mrs\.|Dr\.)\s+`)
	nameCharsetRe   = regexp.MustCompile(`^[A-Za-z.'\-\s]+$`)
)

var invalidNamePhrases = []string{
	"legal officer", "chief legal", "general counsel", "corporate counsel",
	"secretary", "president", "vice president", "chief executive",
	"ceo", "cfo", "clo", "officer", "director", "manager",
	"associate", "partner", "attorney", "lawyer", "counsel",
	"corporation", "company", "inc", "llc", "llp", "limited",
	"the registrant", "the company", "issuer",
	"chief financial", "financial officer", "date filed",
	"registration statement", "signature", "address", "dated",
}

var invalidNameTokens = map[string]bool{
	"chief": true, "financial": true, "officer": true, "filed": true,
	"date": true, "amended": true, "registration": true, "statement": true,
	"signature": true, "address": true, "dated": true, "street": true,
	"suite": true, "city": true, "state": true, "zip": true,
	"telephone": true, "fax": true, "email": true,
}

var internalTitles = []string{
	"general counsel", "chief legal officer", "clo",
	"corporate counsel", "secretary", "corporate secretary",
	"in-house counsel", "legal counsel", "vice president",
	"senior counsel", "associate general counsel", "president",
	"chief executive", "ceo", "cfo",
}

// NormalizeLawyerName strips professional credentials and collapses
// whitespace.
func NormalizeLawyerName(name string) string {
	name = strings.TrimSpace(name)
	name = esqCredentialRe.ReplaceAllString(name, "")
	name = pcCredentialRe.ReplaceAllString(name, "")
	name = whitespaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// nameMatchKey reduces a name to lowercase first and last words so
// "Michelle A. Wong" and "Michelle Wong" collide.
func nameMatchKey(name string) string {
	name = NormalizeLawyerName(name)
	name = honorificRe.ReplaceAllString(name, "")
	parts := strings.Fields(name)

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return strings.ToLower(parts[0])
	default:
		return strings.ToLower(parts[0]) + " " + strings.ToLower(parts[len(parts)-1])
	}
}

// IsValidPersonName reports whether a candidate is a plausible person
// name rather than a title, a company name or filing metadata.
func IsValidPersonName(name, companyName string) bool {
	nameLower := strings.ToLower(name)

	if companyName != "" {
		companyWords := make(map[string]bool)
		for _, w := range strings.Fields(strings.ToLower(companyName)) {
			companyWords[w] = true
		}
		for _, w := range strings.Fields(nameLower) {
			if len(w) > 4 && companyWords[w] {
				return false
			}
		}
	}

	for _, phrase := range invalidNamePhrases {
		if strings.Contains(nameLower, phrase) {
			return false
		}
	}

	if digitRe.MatchString(name) {
		return false
	}

	words := strings.Fields(name)
	if len(words) < 2 || len(words) > 4 {
		return false
	}

	for _, word := range words {
		if invalidNameTokens[strings.ToLower(strings.Trim(word, `.,"'`))] {
			return false
		}
	}

	if !nameCharsetRe.MatchString(name) {
		return false
	}

	for _, word := range words {
		if len(word) > 1 && (word[0] < 'A' || word[0] > 'Z') {
			return false
		}
	}

	longEnough := false
	for _, word := range words {
		if len(word) > 3 {
			longEnough = true
			break
		}
	}
	if !longEnough {
		return false
	}

	if strings.HasPrefix(nameLower, "by ") || strings.HasPrefix(nameLower, "for ") {
		return false
	}

	return true
}

// IsInternalEmployee reports whether the name is followed within 100
// characters by a company title, which marks in-house counsel.
func IsInternalEmployee(name, context string) bool {
	idx := strings.Index(context, name)
	if idx == -1 {
		return false
	}

	end := idx + 100
	if end > len(context) {
		end = len(context)
	}
	after := strings.ToLower(context[idx:end])

	for _, title := range internalTitles {
		if strings.Contains(after, title) {
			return true
		}
	}
	return false
}

// DeduplicateFirmLawyers collapses name variants within each firm,
// keeping the longest form of each first+last combination.
func DeduplicateFirmLawyers(firms FirmLawyers) FirmLawyers {
	deduplicated := make(FirmLawyers, len(firms))

	for firm, lawyers := range firms {
		deduplicated.AddFirm(firm)
		longest := make(map[string]string)
		for lawyer := range lawyers {
			key := nameMatchKey(lawyer)
			if existing, ok := longest[key]; !ok || len(lawyer) > len(existing) {
				longest[key] = lawyer
			}
		}
		for _, lawyer := range longest {
			deduplicated[firm][lawyer] = struct{}{}
		}
	}

	return deduplicated
}
