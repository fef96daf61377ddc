package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chatbridge/chatbridge/internal/config"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/chatbridge/chatbridge/sdk/translator/builtin"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/pretty"
)

// ConvertOptions describes a one-shot conversion run.
type ConvertOptions struct {
	// Kind is "request", "response" or "detect".
	Kind string
	// From is the source format; empty or "auto" detects it.
	From string
	// To is the target format, required unless Kind is "detect".
	To string
	// Input is a file path; empty or "-" reads stdin.
	Input string
	// Pretty indents the JSON output.
	Pretty bool
}

// RunConvert converts a single payload and writes the result to out.
func RunConvert(ctx context.Context, cfg *config.Config, opts ConvertOptions, stdin io.Reader, out io.Writer) error {
	raw, err := readInput(opts.Input, stdin)
	if err != nil {
		return err
	}

	kind := strings.ToLower(strings.TrimSpace(opts.Kind))
	if kind == "" {
		kind = "request"
	}

	switch kind {
	case "detect":
		request := sdktranslator.DetectRequestFormat(raw)
		response := sdktranslator.DetectResponseFormat(raw)
		_, err = fmt.Fprintf(out, "request: %s\nresponse: %s\n", request, response)
		return err
	case "request", "response":
	default:
		return fmt.Errorf("unknown kind %q, expected request, response or detect", opts.Kind)
	}

	to := sdktranslator.FromString(opts.To)
	if !to.Known() {
		return fmt.Errorf("%w: target %q", sdktranslator.ErrUnsupportedFormat, opts.To)
	}
	var from sdktranslator.Format
	if name := strings.TrimSpace(opts.From); name == "" || strings.EqualFold(name, "auto") {
		if kind == "response" {
			from = sdktranslator.DetectResponseFormat(raw)
		} else {
			from = sdktranslator.DetectRequestFormat(raw)
		}
		log.Debugf("detected source format %s", from)
	} else if from = sdktranslator.FromString(name); !from.Known() {
		return fmt.Errorf("%w: source %q", sdktranslator.ErrUnsupportedFormat, opts.From)
	}

	pipeline := builtin.Pipeline(cfg.Conversion.EngineOptions()...)
	var result []byte
	var outcome sdktranslator.Outcome
	if kind == "response" {
		env, errTranslate := pipeline.TranslateResponse(ctx, sdktranslator.ResponseEnvelope{From: from, To: to, Body: raw})
		if errTranslate != nil {
			return errTranslate
		}
		result, outcome = env.Body, env.Outcome
	} else {
		env, errTranslate := pipeline.TranslateRequest(ctx, sdktranslator.RequestEnvelope{From: from, To: to, Body: raw})
		if errTranslate != nil {
			return errTranslate
		}
		result, outcome = env.Body, env.Outcome
	}
	log.WithFields(log.Fields{"direction": kind, "pair": sdktranslator.Pair{From: from, To: to}.String(), "outcome": outcome}).Debug("conversion finished")

	if opts.Pretty {
		result = pretty.Pretty(result)
	} else if !bytes.HasSuffix(result, []byte("\n")) {
		result = append(result, '\n')
	}
	_, err = out.Write(result)
	return err
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}
