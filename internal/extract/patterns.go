package extract

import (
	"regexp"
	"strings"
)

// nameLinePattern matches "First Last", "First M. Last" and generational
// suffixes on a single line.
const nameLinePattern = `([A-Z][a-z]+(?:\s+[A-Z]\.?)?\s+[A-Z][a-z]+(?:\s+(?:Jr\.|Sr\.|II|III|IV))?)`

var (
	// Stacked credentialed name lines followed by the firm:
	//   Benjamin A. Potter, Esq.
	//   Drew Capurro, Esq.
	//   Latham & Watkins LLP
	credentialedBlockRe = regexp.MustCompile(
		`((?:` + nameLinePattern + `(?:,?\s*(?:Esq\.|P\.C\.))\s*\n)+)\s*([A-Z][^\n]{5,60}?` + lawFirmSuffixPattern + `)`)

	// "Carlos Ramirez and Nicholaus Johnson of Cooley LLP"
	ofFirmRe = regexp.MustCompile(
		`([A-Z][a-z]+(?:\s+[A-Z]\.?)?\s+[A-Z][a-z]+(?:\s+(?:and|,)\s+[A-Z][a-z]+(?:\s+[A-Z]\.?)?\s+[A-Z][a-z]+)*)\s+of\s+([A-Z][^\n]{5,60}?` + lawFirmSuffixPattern + `)`)

	// Name on one line, firm on the next. A trailing ", Esq." or ", P.C."
	// after the name is a credential, not part of the firm.
	nameAboveFirmRe = regexp.MustCompile(
		nameLinePattern + `(?:,?\s*(?:Esq\.|P\.C\.))?\s*\n\s*([A-Z][^\n]{5,60}?` + lawFirmSuffixPattern + `)`)

	// "Copies to:" cover-page block: a run of addressee lines ending at
	// the firm line.
	copiesToRe = regexp.MustCompile(
		`(?m)(?:Copies to:|Copy to:)\s*\n((?:.*\n)+?)([A-Z][^\n,]{5,60}?` + lawFirmSuffixPattern + `(?:[^\n]{0,20})?$)`)

	// "By: Jane Doe" signature line with the firm beneath it.
	signatureRe = regexp.MustCompile(
		`By:\s*([A-Z][a-z]+(?:\s+[A-Z]\.?)?\s+[A-Z][a-z]+)(?:,?\s*(?:Esq\.|P\.C\.))?\s*\n\s*([A-Z][^\n]{5,60}?` + lawFirmSuffixPattern + `)`)

	// Firm named within 500 characters of a "Legal Matters" heading.
	legalMattersRe = regexp.MustCompile(
		`(?is)Legal Matters\s+.{0,500}?\b([A-Z][A-Za-z\s&,]+` + lawFirmSuffixPattern + `)`)

	nameLineStartRe  = regexp.MustCompile(`^` + nameLinePattern)
	copiesNameRe     = regexp.MustCompile(`^([A-Z][a-z]+(?:\s+[A-Z]\.?)?\s+[A-Z][a-z]+)(?:,?\s*(?:Esq\.|P\.C\.))?`)
	firmLineSuffixRe = regexp.MustCompile(`(?:LLP|LLC|P\.A\.)(?:\s|$)`)
	nameSplitRe      = regexp.MustCompile(`\s+and\s+|,\s*`)
	esqTrailingRe    = regexp.MustCompile(`(?i),?\s*Esq\.?$`)
	pcTrailingRe     = regexp.MustCompile(`(?i),?\s*P\.C\.?$`)
)

// ExtractLawyers runs all structural patterns over a filing's plain text
// and returns external law firms with the lawyers found at each.
func ExtractLawyers(text, companyName string) FirmLawyers {
	results := make(FirmLawyers)
	extractCredentialedBlocks(text, companyName, results)
	extractOfFirm(text, companyName, results)
	extractNameAboveFirm(text, companyName, results)
	extractCopiesTo(text, companyName, results)
	extractSignatures(text, companyName, results)
	return results
}

// ExtractFirmOnly falls back to the Legal Matters section when no
// lawyer-and-firm pair matched, returning just the firm engaged for the
// offering. Only the first valid firm counts.
func ExtractFirmOnly(text, companyName string) (string, bool) {
	for _, m := range legalMattersRe.FindAllStringSubmatch(text, -1) {
		firm := CleanFirmName(m[1])
		if firm != "" && len(firm) > 10 && IsValidFirmName(firm, companyName) {
			return NormalizeFirmName(firm), true
		}
	}
	return "", false
}

func extractCredentialedBlocks(text, companyName string, results FirmLawyers) {
	for _, m := range credentialedBlockRe.FindAllStringSubmatchIndex(text, -1) {
		namesBlock := text[m[2]:m[3]]
		firm := CleanFirmName(text[m[6]:m[7]])
		if firm == "" || !IsValidFirmName(firm, companyName) {
			continue
		}

		context := clampSlice(text, m[0], m[1]+150)
		for _, line := range strings.Split(strings.TrimSpace(namesBlock), "\n") {
			nameMatch := nameLineStartRe.FindStringSubmatch(strings.TrimSpace(line))
			if nameMatch == nil {
				continue
			}
			name := strings.TrimSpace(nameMatch[1])
			if !IsValidPersonName(name, companyName) || IsInternalEmployee(name, context) {
				continue
			}
			results.Add(NormalizeFirmName(firm), NormalizeLawyerName(name))
		}
	}
}

func extractOfFirm(text, companyName string, results FirmLawyers) {
	for _, m := range ofFirmRe.FindAllStringSubmatchIndex(text, -1) {
		namesPart := text[m[2]:m[3]]
		firm := CleanFirmName(text[m[4]:m[5]])
		if firm == "" || !IsValidFirmName(firm, companyName) {
			continue
		}
		context := clampSlice(text, m[0]-100, m[1]+100)

		var validNames []string
		for _, name := range nameSplitRe.Split(namesPart, -1) {
			name = honorificRe.ReplaceAllString(strings.TrimSpace(name), "")
			name = esqTrailingRe.ReplaceAllString(name, "")
			name = pcTrailingRe.ReplaceAllString(name, "")
			name = strings.TrimSpace(name)
			if name == "" || !IsValidPersonName(name, companyName) || IsInternalEmployee(name, context) {
				continue
			}
			validNames = append(validNames, name)
		}

		for _, name := range validNames {
			results.Add(NormalizeFirmName(firm), NormalizeLawyerName(name))
		}
	}
}

func extractNameAboveFirm(text, companyName string, results FirmLawyers) {
	for _, m := range nameAboveFirmRe.FindAllStringSubmatchIndex(text, -1) {
		name := strings.TrimSpace(text[m[2]:m[3]])
		firm := CleanFirmName(text[m[4]:m[5]])
		if firm == "" || !IsValidFirmName(firm, companyName) {
			continue
		}
		context := clampSlice(text, m[0], m[1]+100)
		if !IsValidPersonName(name, companyName) || IsInternalEmployee(name, context) {
			continue
		}
		results.Add(NormalizeFirmName(firm), NormalizeLawyerName(name))
	}
}

func extractCopiesTo(text, companyName string, results FirmLawyers) {
	for _, m := range copiesToRe.FindAllStringSubmatchIndex(text, -1) {
		namesSection := text[m[2]:m[3]]
		firm := CleanFirmName(text[m[4]:m[5]])
		if firm == "" || !IsValidFirmName(firm, companyName) {
			continue
		}

		context := clampSlice(text, m[0], m[1]+200)
		for _, line := range strings.Split(strings.TrimSpace(namesSection), "\n") {
			line = strings.TrimSpace(line)
			if len(line) < 5 || lineLooksLikeFirm(line) {
				continue
			}

			nameMatch := copiesNameRe.FindStringSubmatch(line)
			if nameMatch == nil {
				continue
			}
			name := strings.TrimSpace(nameMatch[1])
			if !IsValidPersonName(name, companyName) || IsInternalEmployee(name, context) {
				continue
			}
			results.Add(NormalizeFirmName(firm), NormalizeLawyerName(name))
		}
	}
}

func extractSignatures(text, companyName string, results FirmLawyers) {
	for _, m := range signatureRe.FindAllStringSubmatchIndex(text, -1) {
		name := strings.TrimSpace(text[m[2]:m[3]])
		firm := CleanFirmName(text[m[4]:m[5]])
		if firm == "" || !IsValidFirmName(firm, companyName) {
			continue
		}
		context := clampSlice(text, m[0], m[1]+100)
		if !IsValidPersonName(name, companyName) || IsInternalEmployee(name, context) {
			continue
		}
		results.Add(NormalizeFirmName(firm), NormalizeLawyerName(name))
	}
}

// lineLooksLikeFirm distinguishes a firm line from an addressee line in
// a Copies to: block. A suffix preceded by ", " is a personal credential
// ("Jane Doe, P.A.") rather than an entity suffix.
func lineLooksLikeFirm(line string) bool {
	for _, loc := range firmLineSuffixRe.FindAllStringIndex(line, -1) {
		start := loc[0]
		if start >= 2 && line[start-2] == ',' && (line[start-1] == ' ' || line[start-1] == '\t') {
			continue
		}
		return true
	}
	return false
}

func clampSlice(text string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}
