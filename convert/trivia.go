package convert

import (
	"strings"

	"github.com/heshanpadmasiri/csvb/annotation"
	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

func convertTrivia(in []cs.Trivia) []vbsrc.Trivia {
	var out []vbsrc.Trivia
	for _, t := range in {
		switch t.Kind {
		case cs.BlankLine:
			out = append(out, vbsrc.Trivia{Kind: vbsrc.BlankLine})
		case cs.DocComment:
			out = append(out, vbsrc.Trivia{Kind: vbsrc.DocComment, Text: t.Text})
		case cs.BlockComment:
			for _, line := range strings.Split(t.Text, "\n") {
				line = strings.TrimSpace(line)
				line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
				if line == "" {
					continue
				}
				out = append(out, vbsrc.Trivia{Kind: vbsrc.Comment, Text: " " + line})
			}
		default:
			out = append(out, vbsrc.Trivia{Kind: vbsrc.Comment, Text: t.Text})
		}
	}
	return out
}

func spanAnnotation(s cs.Span) annotation.Span {
	return annotation.Span{StartLine: s.StartLine, StartCol: s.StartCol, EndLine: s.EndLine, EndCol: s.EndCol}
}

// attachTrivia moves the trivia of src onto its converted nodes: leading
// trivia on the first node, trailing trivia on the last. The last node also
// carries the source span and the single-line marker.
func attachTrivia[T vbsrc.Node](src cs.Node, out []T) []T {
	if len(out) == 0 {
		return out
	}
	info := src.Info()
	first := out[0].Info()
	last := out[len(out)-1].Info()
	first.Leading = append(convertTrivia(info.Leading), first.Leading...)
	last.Trailing = append(last.Trailing, convertTrivia(info.Trailing)...)
	if info.Span != (cs.Span{}) {
		last.Annotations.SetSpan(spanAnnotation(info.Span))
		if info.Span.SingleLine() {
			last.Annotations.Mark(annotation.SingleLine)
		}
	}
	return out
}
