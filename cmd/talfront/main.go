// Talfront is a speech synthesis text frontend: it normalizes raw text or
// SSML into words with byte offsets and translates them into phone
// sequences through a lexicon and grapheme-to-phoneme chain.
//
// Usage:
//
//	talfront [flags] "some text"
//	echo "some text" | talfront [flags]
//	talfront --ssml '<speak>Halló <phoneme alphabet="x-sampa" ph="h aI m Y r">heimur</phoneme></speak>'
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mimir-speech/talfront/internal/config"
	"github.com/mimir-speech/talfront/internal/g2p"
	goruutengine "github.com/mimir-speech/talfront/internal/g2p/engine/goruut"
	remoteengine "github.com/mimir-speech/talfront/internal/g2p/engine/remote"
	"github.com/mimir-speech/talfront/internal/normalize"
	"github.com/mimir-speech/talfront/internal/phoneme"
	"github.com/mimir-speech/talfront/internal/pipeline"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/talfront.local.yaml)")
	isSSML := flag.Bool("ssml", false, "treat the input as SSML markup")
	alphabetFlag := flag.String("alphabet", "", "target phonetic alphabet (overrides config)")
	langFlag := flag.String("lang", "", "language tag (overrides config)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("talfront %s\n", version)
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging.
	config.SetupLogging(cfg.Logging)
	slog.Info("talfront starting", "version", version)

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	lang := cfg.Frontend.Language
	if *langFlag != "" {
		lang = *langFlag
	}
	alphabet := phoneme.Alphabet(cfg.Frontend.Alphabet)
	if *alphabetFlag != "" {
		alphabet = phoneme.Alphabet(*alphabetFlag)
	}
	if !alphabet.Valid() {
		slog.Error("unknown phonetic alphabet", "alphabet", alphabet)
		os.Exit(1)
	}

	// Assemble the translator chain: lexicons first, engine last.
	var translators []g2p.Translator
	if path, ok := cfg.G2P.Lexicons[lang]; ok {
		lex, err := g2p.NewLexiconTranslator(path, phoneme.Alphabet(cfg.G2P.LexiconAlphabet))
		if err != nil {
			slog.Error("failed to load lexicon", "path", path, "error", err)
			os.Exit(1)
		}
		translators = append(translators, lex)
		slog.Info("loaded lexicon", "language", lang, "path", path)
	}

	switch cfg.G2P.Engine {
	case "goruut":
		engine := goruutengine.New(cfg.G2P.Goruut.Language)
		translators = append(translators, g2p.NewModelTranslator(engine))
		slog.Info("using in-process transcription engine", "language", cfg.G2P.Goruut.Language)
	case "remote":
		engine := remoteengine.New(remoteengine.Config{
			Endpoint: cfg.G2P.Remote.Endpoint,
			APIKey:   cfg.G2P.Remote.APIKey,
			Timeout:  time.Duration(cfg.G2P.Remote.TimeoutSeconds) * time.Second,
		})
		translators = append(translators, g2p.NewModelTranslator(engine))
		slog.Info("using remote transcription engine", "endpoint", cfg.G2P.Remote.Endpoint)
	default:
		slog.Error("unknown g2p engine", "engine", cfg.G2P.Engine)
		os.Exit(1)
	}

	translator, err := g2p.NewComposed(translators...)
	if err != nil {
		slog.Error("failed to build translator chain", "error", err)
		os.Exit(1)
	}
	defer translator.Close()

	// Initialize the normalizer backend.
	var normalizer normalize.Normalizer
	switch cfg.Normalizer.Backend {
	case "basic":
		normalizer = normalize.NewBasic()
	case "remote":
		client, err := normalize.NewGRPCClient(cfg.Normalizer.Address)
		if err != nil {
			slog.Error("failed to connect normalizer", "address", cfg.Normalizer.Address, "error", err)
			os.Exit(1)
		}
		remote := normalize.NewRemote(client)
		defer remote.Close()
		normalizer = remote
		slog.Info("using remote normalizer", "address", cfg.Normalizer.Address)
	default:
		slog.Error("unknown normalizer backend", "backend", cfg.Normalizer.Backend)
		os.Exit(1)
	}

	// Read the input text: arguments win over stdin.
	var text string
	if flag.NArg() > 0 {
		text = strings.Join(flag.Args(), " ")
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			slog.Error("failed to read stdin", "error", err)
			os.Exit(1)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		slog.Error("no input text")
		os.Exit(1)
	}

	p := pipeline.New(normalizer, translator, lang)
	slog.Info("pipeline ready", "fingerprint", p.VersionHash())

	result, err := p.RunAll(ctx, text, *isSSML, alphabet)
	if err != nil {
		slog.Error("frontend run failed", "error", err)
		os.Exit(1)
	}

	for _, w := range result {
		if w.IsSeparator() {
			fmt.Println()
			continue
		}
		mark, err := w.SpeechMark()
		if err != nil {
			slog.Error("failed to encode speech mark", "error", err)
			os.Exit(1)
		}
		fmt.Printf("%s\t%s\n", strings.Join(w.PhoneSequence, " "), mark)
	}

	slog.Info("talfront done", "words", len(result))
}
