package htmltree

import (
	"strings"

	"github.com/npillmayer/gosub/internal/dom"
)

// quirksPublicIDExact triggers Quirks mode on an exact, case-insensitive
// match of the DOCTYPE public identifier. Verbatim from the HTML5
// specification list (§9 Open Questions: "use it verbatim, and do not add
// to it").
var quirksPublicIDExact = []string{
	"-//W3O//DTD W3 HTML Strict 3.0//EN//",
	"-/W3C/DTD HTML 4.0 Transitional/EN",
	"HTML",
}

var quirksSystemIDExact = []string{
	"http://www.ibm.com/data/dtd/v11/ibmxhtml1-transitional.dtd",
}

var quirksPublicIDPrefix = []string{
	"+//Silmaril//dtd html Pro v0r11 19970101//",
	"-//AS//DTD HTML 3.0 asWedit + extensions//",
	"-//AdvaSoft Ltd//DTD HTML 3.0 asWedit + extensions//",
	"-//IETF//DTD HTML 2.0//",
	"-//IETF//DTD HTML 2.1E//",
	"-//IETF//DTD HTML 3.0//",
	"-//IETF//DTD HTML 3.2 Final//",
	"-//IETF//DTD HTML 3.2//",
	"-//IETF//DTD HTML 3//",
	"-//IETF//DTD HTML Level 0//",
	"-//IETF//DTD HTML Level 1//",
	"-//IETF//DTD HTML Level 2//",
	"-//IETF//DTD HTML Level 3//",
	"-//IETF//DTD HTML Strict Level 0//",
	"-//IETF//DTD HTML Strict Level 1//",
	"-//IETF//DTD HTML Strict Level 2//",
	"-//IETF//DTD HTML Strict Level 3//",
	"-//IETF//DTD HTML Strict//",
	"-//IETF//DTD HTML//",
	"-//Metrius//DTD Metrius Presentational//",
	"-//Microsoft//DTD Internet Explorer 2.0 HTML Strict//",
	"-//Microsoft//DTD Internet Explorer 2.0 HTML//",
	"-//Microsoft//DTD Internet Explorer 2.0 Tables//",
	"-//Microsoft//DTD Internet Explorer 3.0 HTML Strict//",
	"-//Microsoft//DTD Internet Explorer 3.0 HTML//",
	"-//Microsoft//DTD Internet Explorer 3.0 Tables//",
	"-//Netscape Comm. Corp.//DTD HTML//",
	"-//Netscape Comm. Corp.//DTD Strict HTML//",
	"-//O'Reilly and Associates//DTD HTML 2.0//",
	"-//O'Reilly and Associates//DTD HTML Extended 1.0//",
	"-//O'Reilly and Associates//DTD HTML Extended Relaxed 1.0//",
	"-//SQ//DTD HTML 2.0 HoTMetaL + extensions//",
	"-//SoftQuad Software//DTD HoTMetaL PRO 6.0::19990601::extensions to HTML 4.0//",
	"-//SoftQuad//DTD HoTMetaL PRO 4.0::19971010::extensions to HTML 4.0//",
	"-//Spyglass//DTD HTML 2.0 Extended//",
	"-//Sun Microsystems Corp.//DTD HotJava HTML//",
	"-//Sun Microsystems Corp.//DTD HotJava Strict HTML//",
	"-//W3C//DTD HTML 3 1995-03-24//",
	"-//W3C//DTD HTML 3.2 Draft//",
	"-//W3C//DTD HTML 3.2 Final//",
	"-//W3C//DTD HTML 3.2//",
	"-//W3C//DTD HTML 3.2S Draft//",
	"-//W3C//DTD HTML 4.0 Frameset//",
	"-//W3C//DTD HTML 4.0 Transitional//",
	"-//W3C//DTD HTML Experimental 19960712//",
	"-//W3C//DTD HTML Experimental 970421//",
	"-//W3C//DTD W3 HTML//",
	"-//W3O//DTD W3 HTML 3.0//",
	"-//WebTechs//DTD Mozilla HTML 2.0//",
	"-//WebTechs//DTD Mozilla HTML//",
}

var limitedQuirksPublicIDPrefix = []string{
	"-//W3C//DTD XHTML 1.0 Frameset//",
	"-//W3C//DTD XHTML 1.0 Transitional//",
}

// quirksPrefixSystemRequired triggers Quirks only when the system id is
// absent.
var quirksPrefixSystemRequired = []string{
	"-//W3C//DTD HTML 4.01 Frameset//",
	"-//W3C//DTD HTML 4.01 Transitional//",
}

func hasPrefixFold(s string, prefixes []string) bool {
	ls := strings.ToLower(s)
	for _, p := range prefixes {
		if strings.HasPrefix(ls, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

func equalsFold(s string, set []string) bool {
	for _, v := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// QuirksModeFor implements §4.2 "Quirks detection" from a parsed DOCTYPE
// token's fields.
func QuirksModeFor(name, publicID, systemID string, hasPublicID, hasSystemID, forceQuirks bool) dom.QuirksMode {
	if forceQuirks || !strings.EqualFold(name, "html") {
		return dom.Quirks
	}
	if hasPublicID && equalsFold(publicID, quirksPublicIDExact) {
		return dom.Quirks
	}
	if hasSystemID && equalsFold(systemID, quirksSystemIDExact) {
		return dom.Quirks
	}
	if hasPublicID && hasPrefixFold(publicID, quirksPublicIDPrefix) {
		return dom.Quirks
	}
	if hasPublicID && hasPrefixFold(publicID, quirksPrefixSystemRequired) && !hasSystemID {
		return dom.Quirks
	}
	if hasPublicID && hasPrefixFold(publicID, limitedQuirksPublicIDPrefix) {
		return dom.LimitedQuirks
	}
	if hasPublicID && hasPrefixFold(publicID, quirksPrefixSystemRequired) && hasSystemID {
		return dom.LimitedQuirks
	}
	return dom.NoQuirks
}
