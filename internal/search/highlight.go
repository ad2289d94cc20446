package search

import "unicode/utf8"

// Segment is one piece of a highlighted title.
type Segment struct {
	Text  string
	Match bool
}

// Split cuts text around every case-insensitive occurrence of needle. Matched
// pieces keep their original casing and the concatenation of all segment
// texts is always text, byte for byte. Needle is taken literally.
func Split(text, needle string) []Segment {
	pat := []rune(needle)
	if text == "" || len(pat) == 0 {
		return []Segment{{Text: text}}
	}

	var (
		out   []Segment
		start int
	)
	for i := 0; i < len(text); {
		if end, ok := matchAt(text, i, pat); ok {
			if i > start {
				out = append(out, Segment{Text: text[start:i]})
			}
			out = append(out, Segment{Text: text[i:end], Match: true})
			i, start = end, end
			continue
		}
		_, w := utf8.DecodeRuneInString(text[i:])
		i += w
	}
	if start < len(text) {
		out = append(out, Segment{Text: text[start:]})
	}
	return out
}
