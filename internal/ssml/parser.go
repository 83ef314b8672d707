// Package ssml parses the markup dialect accepted by the frontend into plain
// text plus an annotated word list, and provides the byte-accounting helpers
// used to realign externally normalized tokens against raw markup.
//
// The dialect is deliberately constrained: <speak> is the mandatory root,
// the only other elements are <phoneme>, <sub>, <say-as> and <prosody>,
// nesting is at most two levels deep and a tag never nests inside a tag of
// its own type. Anything else is rejected outright — there is no partial
// recovery, because silently guessing at prosody or phoneme intent produces
// wrong audio with no error anywhere.
package ssml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/mimir-speech/talfront/internal/phoneme"
	"github.com/mimir-speech/talfront/internal/words"
)

var sayAsInterpretations = map[string]struct{}{
	"characters": {},
	"spell-out":  {},
	"digits":     {},
}

// Result holds the outcome of parsing an SSML document.
type Result struct {
	segments   []string // spoken text in document order, sub aliases substituted
	segmentsPh []string // same, with phoneme content as brace-embedded IPA
	words      []*words.Word
}

// Parse validates markup and extracts its spoken content. Any structural or
// attribute violation fails the whole document.
func Parse(markup string) (*Result, error) {
	doc, err := xmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing ssml: %w", err)
	}

	var root *xmlquery.Node
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		switch n.Type {
		case xmlquery.ElementNode:
			if root != nil {
				return nil, errors.New("ssml: more than one top-level element")
			}
			if n.Data != string(words.TagSpeak) {
				return nil, fmt.Errorf("ssml: start tag is not <speak>, got <%s>", n.Data)
			}
			root = n
		case xmlquery.TextNode, xmlquery.CharDataNode:
			if strings.TrimSpace(n.Data) != "" {
				return nil, errors.New("ssml: all text must be contained within the markup")
			}
		}
	}
	if root == nil {
		return nil, errors.New("ssml: start tag is not <speak>")
	}
	if len(root.Attr) > 0 {
		return nil, errors.New("ssml: speak tag does not take attributes")
	}

	res := &Result{}
	if err := res.consumeChildren(root, words.TagSpeak); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Result) consumeChildren(el *xmlquery.Node, parent words.TagType) error {
	for n := el.FirstChild; n != nil; n = n.NextSibling {
		switch n.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			r.addText(n.Data, &words.SSMLProps{TagType: parent})
		case xmlquery.ElementNode:
			if parent != words.TagSpeak {
				return fmt.Errorf("ssml: maximum nesting level is 2, <%s> cannot contain <%s>", parent, n.Data)
			}
			if err := r.consumeElement(n); err != nil {
				return err
			}
		case xmlquery.CommentNode:
			// ignored, participates in nothing
		}
	}
	return nil
}

func (r *Result) consumeElement(n *xmlquery.Node) error {
	switch words.TagType(n.Data) {
	case words.TagSpeak:
		return errors.New("ssml: nesting a tag inside a tag of the same type is not allowed")
	case words.TagPhoneme:
		return r.consumePhoneme(n)
	case words.TagSub:
		return r.consumeSub(n)
	case words.TagSayAs:
		return r.consumeSayAs(n)
	case words.TagProsody:
		return r.consumeProsody(n)
	default:
		return fmt.Errorf("ssml: unsupported tag <%s>", n.Data)
	}
}

func (r *Result) consumePhoneme(n *xmlquery.Node) error {
	alphabet := phoneme.Alphabet(n.SelectAttr("alphabet"))
	ph, ok := attr(n, "ph")
	if !ok || (alphabet != phoneme.XSAMPA && alphabet != phoneme.IPA) {
		return errors.New("ssml: phoneme tag requires 'alphabet' and 'ph' attributes using supported alphabets")
	}
	if err := noChildElements(n); err != nil {
		return err
	}

	var (
		phones phoneme.PhoneSeq
		err    error
	)
	if alphabet == phoneme.XSAMPA {
		phones, err = phoneme.AlignIPAFromXSAMPA(ph)
	} else {
		phones, err = phoneme.AlignIPA(ph)
	}
	if err != nil {
		return fmt.Errorf("ssml: phoneme tag carries an invalid phone string: %w", err)
	}

	content := strings.TrimSpace(n.InnerText())
	fields := strings.Fields(content)
	r.words = append(r.words, &words.Word{
		OriginalSymbol: content,
		Symbol:         content,
		PhoneSequence:  phones,
		SSML: &words.SSMLProps{
			TagType:  words.TagPhoneme,
			Multi:    len(fields) > 1,
			Alphabet: alphabet,
			Ph:       ph,
		},
	})
	r.segments = append(r.segments, n.InnerText())
	r.segmentsPh = append(r.segmentsPh, "{"+strings.Join(phones, " ")+"}")
	return nil
}

func (r *Result) consumeSub(n *xmlquery.Node) error {
	alias, ok := attr(n, "alias")
	if !ok {
		return errors.New("ssml: sub tag requires the 'alias' attribute")
	}
	if err := noChildElements(n); err != nil {
		return err
	}
	r.addText(alias, &words.SSMLProps{
		TagType: words.TagSub,
		Alias:   alias,
		Content: strings.TrimSpace(n.InnerText()),
	})
	return nil
}

func (r *Result) consumeSayAs(n *xmlquery.Node) error {
	interpretAs, ok := attr(n, "interpret-as")
	if !ok {
		return errors.New("ssml: say-as tag requires the 'interpret-as' attribute")
	}
	if _, supported := sayAsInterpretations[interpretAs]; !supported {
		return fmt.Errorf("ssml: unsupported 'interpret-as' value %q in say-as tag", interpretAs)
	}
	if err := noChildElements(n); err != nil {
		return err
	}
	r.addText(n.InnerText(), &words.SSMLProps{TagType: words.TagSayAs, InterpretAs: interpretAs})
	return nil
}

func (r *Result) consumeProsody(n *xmlquery.Node) error {
	props := &words.SSMLProps{
		TagType: words.TagProsody,
		Rate:    n.SelectAttr("rate"),
		Pitch:   n.SelectAttr("pitch"),
		Volume:  n.SelectAttr("volume"),
	}
	if props.Rate == "" && props.Pitch == "" && props.Volume == "" {
		return errors.New("ssml: prosody tag requires at least one of 'rate', 'pitch' or 'volume'")
	}
	return r.consumeChildrenProsody(n, props)
}

// consumeChildrenProsody is like consumeChildren but stamps the prosody
// props on every word; prosody only ever contains text at this nesting
// depth.
func (r *Result) consumeChildrenProsody(el *xmlquery.Node, props *words.SSMLProps) error {
	for n := el.FirstChild; n != nil; n = n.NextSibling {
		switch n.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			r.addText(n.Data, props)
		case xmlquery.ElementNode:
			return fmt.Errorf("ssml: maximum nesting level is 2, <prosody> cannot contain <%s>", n.Data)
		}
	}
	return nil
}

// addText records a spoken text segment and one Word per whitespace-separated
// token in it. Whitespace-only segments participate in text reassembly but
// produce no words.
func (r *Result) addText(data string, props *words.SSMLProps) {
	r.segments = append(r.segments, data)
	r.segmentsPh = append(r.segmentsPh, data)
	for _, field := range strings.Fields(data) {
		p := *props
		r.words = append(r.words, &words.Word{
			OriginalSymbol: field,
			Symbol:         field,
			SSML:           &p,
		})
	}
}

// Text returns the spoken content with all markup stripped and sub aliases
// substituted. A document with no spoken text is an error.
func (r *Result) Text() (string, error) {
	text := strings.Join(r.segments, "")
	if strings.TrimSpace(text) == "" {
		return "", errors.New("ssml: the document did not contain any text")
	}
	return text, nil
}

// TextWithPhonemes returns the spoken content with each phoneme element
// replaced by its phone string as a brace-embedded IPA span, ready for the
// tokenizer's embedded-phoneme scanner.
func (r *Result) TextWithPhonemes() string {
	return strings.Join(r.segmentsPh, "")
}

// Words returns one annotated Word per spoken token in document order. A
// multi-word phoneme element contributes a single Word carrying its full
// content.
func (r *Result) Words() []*words.Word { return r.words }

func attr(n *xmlquery.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func noChildElements(n *xmlquery.Node) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return fmt.Errorf("ssml: maximum nesting level is 2, <%s> cannot contain <%s>", n.Data, c.Data)
		}
	}
	return nil
}
