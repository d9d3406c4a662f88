package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanFirmName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"opinion prefix", "Opinion of Cooley LLP", "Cooley LLP"},
		{"trailing punctuation", "Cooley LLP;", "Cooley LLP"},
		{"doubled suffix", "Skadden Arps LLP LLP", "Skadden Arps LLP"},
		{"whitespace collapse", "Latham  &   Watkins LLP", "Latham & Watkins LLP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanFirmName(tt.in))
		})
	}
}

func TestNormalizeFirmName(t *testing.T) {
	assert.Equal(t, "Wilson & Sonsini LLP", NormalizeFirmName("Wilson and Sonsini"))
	assert.Equal(t, "Cooley LLP", NormalizeFirmName("Cooley LLP"))
	assert.Equal(t, "Fenwick LLC", NormalizeFirmName("Fenwick LLC"), "existing suffix is kept")
}

func TestIsValidFirmName(t *testing.T) {
	tests := []struct {
		name    string
		firm    string
		company string
		want    bool
	}{
		{"standard firm", "Latham & Watkins LLP", "Acme Corp", true},
		{"missing suffix", "Latham & Watkins", "Acme Corp", false},
		{"contains digits", "Suite 400 Cooley LLP", "Acme Corp", false},
		{"metadata token", "Exhibit Cooley LLP", "Acme Corp", false},
		{"too many words", "One Two Three Four Five Six Seven Eight Nine LLP", "Acme Corp", false},
		{"accounting firm", "Deloitte LLP", "Acme Corp", false},
		{"investment bank", "Goldman Sachs LLC", "Acme Corp", false},
		{"the company itself", "Acme Corp LLC", "Acme Corp", false},
		{"empty", "", "Acme Corp", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidFirmName(tt.firm, tt.company))
		})
	}
}

func TestIsNotLawFirm(t *testing.T) {
	assert.True(t, IsNotLawFirm("Acme Capital LLC", ""), "fund-flavored LLC")
	assert.True(t, IsNotLawFirm("Smith & Co", ""), "& Co without LLP")
	assert.True(t, IsNotLawFirm("Opinion of Counsel", ""))
	assert.False(t, IsNotLawFirm("Cooley LLP", ""))
	assert.False(t, IsNotLawFirm("Davis Polk & Wardwell LLP", ""))
}

func TestIsValidPersonName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		company string
		want    bool
	}{
		{"first last", "John Smith", "", true},
		{"middle initial", "Jane K. Doe", "", true},
		{"title", "General Counsel", "", false},
		{"single word", "John", "", false},
		{"five words", "John Smith Alpha Beta Gamma", "", false},
		{"digits", "John Smith3", "", false},
		{"invalid token", "Chief Smith", "", false},
		{"lowercase word", "john Smith", "", false},
		{"all short words", "Al Bo", "", false},
		{"by prefix", "By John", "", false},
		{"overlaps company", "Apple Johnson", "Apple Computer Inc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPersonName(tt.in, tt.company))
		})
	}
}

func TestIsInternalEmployee(t *testing.T) {
	assert.True(t, IsInternalEmployee("Jane Doe", "Jane Doe, General Counsel of the registrant"))
	assert.True(t, IsInternalEmployee("Jane Doe", "Jane Doe\nCorporate Secretary"))
	assert.False(t, IsInternalEmployee("Jane Doe", "Jane Doe, Esq.\nCooley LLP"))
	assert.False(t, IsInternalEmployee("Jane Doe", "someone else entirely"))
}

func TestNormalizeLawyerName(t *testing.T) {
	assert.Equal(t, "Jane Doe", NormalizeLawyerName("Jane Doe, Esq."))
	assert.Equal(t, "John Smith", NormalizeLawyerName("John Smith, P.C."))
	assert.Equal(t, "Jane K. Doe", NormalizeLawyerName("  Jane  K.  Doe  "))
}

func TestDeduplicateFirmLawyers(t *testing.T) {
	firms := make(FirmLawyers)
	firms.Add("Cooley LLP", "Michelle Wong")
	firms.Add("Cooley LLP", "Michelle A. Wong")
	firms.Add("Cooley LLP", "Carlos Ramirez")
	firms.AddFirm("Goodwin Procter LLP")

	deduped := DeduplicateFirmLawyers(firms)

	require.Contains(t, deduped, "Cooley LLP")
	assert.Len(t, deduped["Cooley LLP"], 2)
	assert.Contains(t, deduped["Cooley LLP"], "Michelle A. Wong", "longest variant wins")
	assert.NotContains(t, deduped["Cooley LLP"], "Michelle Wong")
	assert.Contains(t, deduped["Cooley LLP"], "Carlos Ramirez")

	require.Contains(t, deduped, "Goodwin Procter LLP")
	assert.Empty(t, deduped["Goodwin Procter LLP"], "firm-only entries survive")
}

func TestFirmLawyersMerge(t *testing.T) {
	a := make(FirmLawyers)
	a.Add("Cooley LLP", "John Smith")

	b := make(FirmLawyers)
	b.Add("Cooley LLP", "Jane Doe")
	b.AddFirm("Latham & Watkins LLP")

	a.Merge(b)
	assert.Len(t, a["Cooley LLP"], 2)
	assert.Contains(t, a, "Latham & Watkins LLP")
}

func TestExtractLawyersOfFirm(t *testing.T) {
	text := "The validity of the shares will be passed upon by\n" +
		"Carlos Ramirez and Nicholaus Johnson of Cooley LLP\n"

	results := ExtractLawyers(text, "Acme Corp")

	require.Contains(t, results, "Cooley LLP")
	assert.Contains(t, results["Cooley LLP"], "Carlos Ramirez")
	assert.Contains(t, results["Cooley LLP"], "Nicholaus Johnson")
}

func TestExtractLawyersNameAboveFirm(t *testing.T) {
	text := "Jane K. Doe, Esq.\nLatham & Watkins LLP\n650 Town Center Drive\n"

	results := ExtractLawyers(text, "Acme Corp")

	require.Contains(t, results, "Latham & Watkins LLP")
	assert.Contains(t, results["Latham & Watkins LLP"], "Jane K. Doe")
}

func TestExtractLawyersCredentialedBlock(t *testing.T) {
	text := "Benjamin A. Potter, Esq.\nDrew Capurro, Esq.\nLatham & Watkins LLP\n"

	results := ExtractLawyers(text, "Acme Corp")

	require.Contains(t, results, "Latham & Watkins LLP")
	assert.Contains(t, results["Latham & Watkins LLP"], "Benjamin A. Potter")
	assert.Contains(t, results["Latham & Watkins LLP"], "Drew Capurro")
}

func TestExtractLawyersCopiesTo(t *testing.T) {
	text := "Copies to:\nJohn A. Smith, Esq.\nMary Jones, Esq.\nWilson Sonsini Goodrich LLP\n"

	results := ExtractLawyers(text, "Acme Corp")

	require.Contains(t, results, "Wilson Sonsini Goodrich LLP")
	assert.Contains(t, results["Wilson Sonsini Goodrich LLP"], "John A. Smith")
	assert.Contains(t, results["Wilson Sonsini Goodrich LLP"], "Mary Jones")
}

func TestExtractLawyersSignature(t *testing.T) {
	text := "By: Robert Brown\nGoodwin Procter LLP\n"

	results := ExtractLawyers(text, "Acme Corp")

	require.Contains(t, results, "Goodwin Procter LLP")
	assert.Contains(t, results["Goodwin Procter LLP"], "Robert Brown")
}

func TestExtractLawyersSkipsInternalCounsel(t *testing.T) {
	text := "Jane Doe of Cooley LLP, General Counsel of the registrant\n"

	results := ExtractLawyers(text, "Acme Corp")
	assert.NotContains(t, results["Cooley LLP"], "Jane Doe")
}

func TestExtractLawyersSkipsNonLawFirms(t *testing.T) {
	text := "Jane Doe and John Smith of Deloitte LLP\n"

	results := ExtractLawyers(text, "Acme Corp")
	assert.Empty(t, results)
}

func TestExtractFirmOnly(t *testing.T) {
	text := "LEGAL MATTERS\nSection 12: Cooley Godward Kronish LLP will pass upon the validity of the shares.\n"

	firm, ok := ExtractFirmOnly(text, "Acme Corp")
	require.True(t, ok)
	assert.Equal(t, "Cooley Godward Kronish LLP", firm)
}

func TestExtractFirmOnlyNoMatch(t *testing.T) {
	_, ok := ExtractFirmOnly("Legal matters are handled internally by staff.", "Acme Corp")
	assert.False(t, ok)
}

func TestFindKnownFirms(t *testing.T) {
	text := "The offering was handled by Skadden Arps Slate Meagher & Flom LLP together with local counsel."

	found := FindKnownFirms(text)
	assert.Contains(t, found, "Skadden, Arps, Slate, Meagher & Flom LLP")
}

func TestFindKnownFirmsAndVariant(t *testing.T) {
	text := "Counsel to the underwriters was Cravath, Swaine and Moore LLP."

	found := FindKnownFirms(text)
	assert.Contains(t, found, "Cravath, Swaine & Moore LLP")
}

func TestFindKnownFirmsNoMention(t *testing.T) {
	assert.Empty(t, FindKnownFirms("No counsel named anywhere in this text."))
}
