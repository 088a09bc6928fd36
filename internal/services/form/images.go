package form

import "regexp"

// imageEmbed matches ![alt](url) with an optional "title".
var imageEmbed = regexp.MustCompile(`!\[[^\]\n]*\]\(\s*([^)\s]+)(?:\s+"[^"\n]*")?\s*\)`)

// ImageRefs returns the URLs of all Markdown image embeds in text, in order.
// Alt text and titles are discarded; malformed embeds are ignored.
func ImageRefs(text string) []string {
	matches := imageEmbed.FindAllStringSubmatch(text, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, m[1])
	}
	return urls
}
