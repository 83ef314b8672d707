package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/url"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"

	"github.com/mimir-speech/talfront/internal/ssml"
	"github.com/mimir-speech/talfront/internal/version"
	"github.com/mimir-speech/talfront/internal/words"
)

// TokenPair is one original token and its normalized expansion as returned
// by the normalization service. The service must preserve token order and
// may not merge tokens; it may expand one token into several words.
type TokenPair struct {
	Original   string
	Normalized string
}

// Client talks to a tokenwise text normalization service. Responses are
// grouped into sentences, each a sequence of token pairs.
type Client interface {
	version.Versioned
	NormalizeTokenwise(ctx context.Context, text string) ([][]TokenPair, error)
	Close() error
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return "json" }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type normalizeRequest struct {
	Content string `json:"content"`
}

type tokenInfo struct {
	OriginalToken   string `json:"original_token"`
	NormalizedToken string `json:"normalized_token"`
}

type normalizedSentence struct {
	TokenInfo []tokenInfo `json:"token_info"`
}

type normalizeResponse struct {
	Sentence []normalizedSentence `json:"sentence"`
}

// GRPCClient reaches the normalization service over gRPC with a JSON
// payload encoding.
type GRPCClient struct {
	conn *grpc.ClientConn
	addr string
}

// NewGRPCClient dials the service at a grpc://host:port address. Dialing is
// lazy; a bad scheme is caught here, an unreachable host on first use.
func NewGRPCClient(address string) (*GRPCClient, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("parse normalizer address %q: %w", address, err)
	}
	if u.Scheme != "grpc" {
		return nil, fmt.Errorf("normalizer address %q: unsupported scheme %q, want grpc", address, u.Scheme)
	}
	conn, err := grpc.NewClient(u.Host,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype("json")),
	)
	if err != nil {
		return nil, fmt.Errorf("connect normalizer at %s: %w", u.Host, err)
	}
	return &GRPCClient{conn: conn, addr: address}, nil
}

// NormalizeTokenwise sends raw text and returns the per-sentence token
// pairs.
func (c *GRPCClient) NormalizeTokenwise(ctx context.Context, text string) ([][]TokenPair, error) {
	req := normalizeRequest{Content: text}
	var resp normalizeResponse
	if err := c.conn.Invoke(ctx, "/talfront.Normalizer/NormalizeTokenwise", &req, &resp); err != nil {
		return nil, fmt.Errorf("normalize request: %w", err)
	}
	sentences := make([][]TokenPair, 0, len(resp.Sentence))
	for _, s := range resp.Sentence {
		pairs := make([]TokenPair, 0, len(s.TokenInfo))
		for _, ti := range s.TokenInfo {
			pairs = append(pairs, TokenPair{Original: ti.OriginalToken, Normalized: ti.NormalizedToken})
		}
		sentences = append(sentences, pairs)
	}
	return sentences, nil
}

func (c *GRPCClient) Close() error { return c.conn.Close() }

// VersionHash fingerprints the client by its endpoint.
func (c *GRPCClient) VersionHash() string {
	return version.Hash("normalize.GRPCClient", []byte(c.addr))
}

// Remote normalizes through an external service and realigns the returned
// tokens against the original input so every emitted word carries byte
// offsets into the caller's buffer. For SSML input the offsets point into
// the raw markup, and words produced by phoneme elements keep their parsed
// phone sequences instead of being handed back for translation.
type Remote struct {
	client Client
}

// NewRemote wraps a normalization service client.
func NewRemote(client Client) *Remote {
	return &Remote{client: client}
}

// Normalize sends the (SSML-stripped) text to the service and walks the
// original input alongside the response: each original token is located by
// consuming leading whitespace (and markup, for SSML) and then its own
// bytes, which yields exact offsets without ever re-searching the buffer.
func (r *Remote) Normalize(ctx context.Context, text string, isSSML bool) iter.Seq2[*words.Word, error] {
	return func(yield func(*words.Word, error) bool) {
		view := text
		consumed := 0
		var parsed []*words.Word
		plain := text
		if isSSML {
			res, err := ssml.Parse(text)
			if err != nil {
				yield(nil, err)
				return
			}
			plain, err = res.Text()
			if err != nil {
				yield(nil, err)
				return
			}
			parsed = res.Words()
		}

		sentences, err := r.client.NormalizeTokenwise(ctx, plain)
		if err != nil {
			yield(nil, err)
			return
		}

		pIdx := 0
		// A sub element substitutes its alias into the service input while
		// the raw view still holds the element's content; the content span
		// is consumed once and shared by every alias token of the element.
		subLeft := 0
		var subStart, subEnd int
		for _, pairs := range sentences {
			emitted := false
			for i := 0; i < len(pairs); i++ {
				pair := pairs[i]
				original := pair.Original
				var pw *words.Word
				spoken := (&words.Word{OriginalSymbol: original}).IsSpoken()
				if isSSML && spoken && pIdx < len(parsed) {
					pw = parsed[pIdx]
					if pw.SSML != nil && pw.SSML.TagType == words.TagSub {
						if subLeft == 0 {
							_, wsBytes := ssml.ConsumeWhitespaceAndTags(view)
							content := pw.SSML.Content
							subStart = consumed + wsBytes
							if !strings.HasPrefix(view[wsBytes:], content) {
								yield(nil, fmt.Errorf("realign sub content %q: not found at byte %d", content, subStart))
								return
							}
							view = view[wsBytes+len(content):]
							consumed = subStart + len(content)
							subEnd = consumed
							subLeft = len(strings.Fields(pw.SSML.Alias))
						}
						subLeft--
						pIdx++
						if !yield(&words.Word{
							OriginalSymbol:  original,
							Symbol:          pair.Normalized,
							StartByteOffset: subStart,
							EndByteOffset:   subEnd,
							SSML:            pw.SSML,
						}, nil) {
							return
						}
						emitted = true
						continue
					}
					if pw.SSML != nil && pw.SSML.TagType == words.TagPhoneme && pw.SSML.Multi {
						// A multi-word phoneme element was parsed into a
						// single word; the service saw the plain words and
						// returns one pair apiece. Collapse them back.
						original = pw.OriginalSymbol
						skip := len(strings.Fields(original)) - 1
						if i+skip < len(pairs) {
							i += skip
						}
					}
				}

				var wsBytes int
				if isSSML {
					_, wsBytes = ssml.ConsumeWhitespaceAndTags(view)
				} else {
					_, wsBytes = ssml.ConsumeWhitespace(view)
				}
				startByte := consumed + wsBytes
				endByte := startByte + len(original)
				if endByte > len(text) || !strings.HasPrefix(view[wsBytes:], original) {
					yield(nil, fmt.Errorf("realign token %q: not found at byte %d", original, startByte))
					return
				}
				view = view[wsBytes+len(original):]
				consumed = endByte

				w := &words.Word{
					OriginalSymbol:  original,
					Symbol:          pair.Normalized,
					StartByteOffset: startByte,
					EndByteOffset:   endByte,
				}
				if pw != nil {
					w.SSML = pw.SSML
					w.PhoneSequence = pw.PhoneSequence
					if pw.SSML != nil && pw.SSML.TagType == words.TagPhoneme {
						// Phones are authoritative for phoneme elements;
						// the service's rewrite of the content is ignored.
						w.Symbol = pw.Symbol
					}
				}
				if spoken {
					pIdx++
				}
				if !yield(w, nil) {
					return
				}
				emitted = true
			}
			if emitted {
				if !yield(words.SentenceSeparator(), nil) {
					return
				}
			}
		}
	}
}

// VersionHash combines the realigner with its service client.
func (r *Remote) VersionHash() string {
	return version.Combine("normalize.Remote", r.client.VersionHash())
}

// Close shuts down the service client.
func (r *Remote) Close() error { return r.client.Close() }
