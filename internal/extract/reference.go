package extract

import (
	"regexp"
	"strings"
)

// MajorLawFirms is a curated list of large U.S. and international firms
// (Am Law 100, UK Magic Circle and similar). It backstops the structural
// patterns: a firm named in a filing without any of the recognized
// layouts is still caught by containment matching.
var MajorLawFirms = []string{
	"Kirkland & Ellis LLP",
	"Latham & Watkins LLP",
	"DLA Piper LLP",
	"Baker McKenzie LLP",
	"Skadden, Arps, Slate, Meagher & Flom LLP",
	"Sidley Austin LLP",
	"Morgan, Lewis & Bockius LLP",
	"White & Case LLP",
	"Cooley LLP",
	"Ropes & Gray LLP",
	"WilmerHale LLP",
	"Goodwin Procter LLP",
	"Gibson, Dunn & Crutcher LLP",
	"Paul, Weiss, Rifkind, Wharton & Garrison LLP",
	"Sullivan & Cromwell LLP",
	"Davis Polk & Wardwell LLP",
	"Cravath, Swaine & Moore LLP",
	"Wachtell, Lipton, Rosen & Katz",
	"Simpson Thacher & Bartlett LLP",
	"Cleary Gottlieb Steen & Hamilton LLP",
	"Debevoise & Plimpton LLP",
	"Shearman & Sterling LLP",
	"Allen & Overy LLP",
	"Clifford Chance LLP",
	"Freshfields Bruckhaus Deringer LLP",
	"Linklaters LLP",
	"Slaughter and May",
	"Wilson Sonsini Goodrich & Rosati P.C.",
	"Fenwick & West LLP",
	"Gunderson Dettmer Stough Villeneuve Franklin & Hachigian LLP",
	"Orrick, Herrington & Sutcliffe LLP",
	"Morrison & Foerster LLP",
	"Perkins Coie LLP",
	"Weil, Gotshal & Manges LLP",
	"Fried, Frank, Harris, Shriver & Jacobson LLP",
	"Willkie Farr & Gallagher LLP",
	"Paul Hastings LLP",
	"Milbank LLP",
	"Proskauer Rose LLP",
	"Schulte Roth & Zabel LLP",
	"Akin Gump Strauss Hauer & Feld LLP",
	"Covington & Burling LLP",
	"Hogan Lovells LLP",
	"Arnold & Porter Kaye Scholer LLP",
	"Cadwalader, Wickersham & Taft LLP",
	"Cahill Gordon & Reindel LLP",
	"Mayer Brown LLP",
	"Vinson & Elkins LLP",
	"Baker Botts LLP",
	"Bracewell LLP",
	"Hunton Andrews Kurth LLP",
	"Foley & Lardner LLP",
	"Greenberg Traurig LLP",
	"McDermott Will & Emery LLP",
	"K&L Gates LLP",
	"Norton Rose Fulbright LLP",
	"Bryan Cave Leighton Paisner LLP",
	"Reed Smith LLP",
	"Dechert LLP",
	"O'Melveny & Myers LLP",
	"Quinn Emanuel Urquhart & Sullivan LLP",
	"King & Spalding LLP",
	"Alston & Bird LLP",
	"Jones Day",
	"Pillsbury Winthrop Shaw Pittman LLP",
	"Herbert Smith Freehills LLP",
	"Ashurst LLP",
	"Simmons & Simmons LLP",
	"Macfarlanes LLP",
	"Travers Smith LLP",
	"De Brauw Blackstone Westbroek N.V.",
	"NautaDutilh N.V.",
	"Loyens & Loeff N.V.",
	"Osler, Hoskin & Harcourt LLP",
	"Blake, Cassels & Graydon LLP",
	"Davies Ward Phillips & Vineberg LLP",
	"Torys LLP",
	"Rajah & Tann LLP",
	"Allen & Gledhill LLP",
	"Kim & Chang",
	"Katten Muchin Rosenman LLP",
	"Kramer Levin Naftalis & Frankel LLP",
	"Akerman LLP",
	"Ballard Spahr LLP",
	"Venable LLP",
	"Troutman Pepper Hamilton Sanders LLP",
	"Dentons LLP",
}

var matchPunctRe = regexp.MustCompile(`[,.]`)

// normalizeForMatching flattens punctuation, case, and "and"/"&"
// variants so "Skadden Arps" in a filing matches the canonical entry.
func normalizeForMatching(s string) string {
	s = matchPunctRe.ReplaceAllString(strings.ToLower(s), "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, " and ", " & ")
	return strings.TrimSpace(s)
}

// FindKnownFirms returns the canonical names of every major firm the
// text mentions, matched case-insensitively and punctuation-tolerantly.
func FindKnownFirms(text string) []string {
	normalized := normalizeForMatching(text)

	var found []string
	for _, firm := range MajorLawFirms {
		if strings.Contains(normalized, normalizeForMatching(firm)) {
			found = append(found, firm)
		}
	}
	return found
}
