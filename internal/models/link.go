package models

import "net/url"

// searchSuffix is the fixed phrase appended to a disease name when building
// an outbound search link.
const searchSuffix = "disease symptoms and treatment"

// SearchURL builds the outbound web search URL for a disease name. The app
// itself transmits nothing; the operator's browser follows the link.
func SearchURL(name string) string {
	q := url.QueryEscape(name + " " + searchSuffix)
	return "https://www.google.com/search?q=" + q
}
