// Package pipeline turns input lines into decode/evaluate results.
package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/danmuck/pktdecode/internal/observability"
	"github.com/danmuck/pktdecode/internal/protocol/bitio"
	"github.com/danmuck/pktdecode/internal/protocol/eval"
	"github.com/danmuck/pktdecode/internal/protocol/packet"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Stage names the step a transmission failed in.
type Stage string

const (
	StageNone     Stage = ""
	StageParse    Stage = "parse"
	StageDecode   Stage = "decode"
	StageEvaluate Stage = "evaluate"
)

// Input is one non-blank input line.
type Input struct {
	Line         int
	Transmission string
}

// Result is the outcome for one Input. VersionSum is valid whenever decode
// succeeded; Value only when Err is nil.
type Result struct {
	Line         int    `json:"line" yaml:"line"`
	Transmission string `json:"transmission" yaml:"transmission"`
	VersionSum   uint64 `json:"version_sum" yaml:"version_sum"`
	Value        uint64 `json:"value" yaml:"value"`
	Packets      int    `json:"packets" yaml:"packets"`
	Stage        Stage  `json:"stage,omitempty" yaml:"stage,omitempty"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
	Err          error  `json:"-" yaml:"-"`

	Packet *packet.Packet `json:"-" yaml:"-"`
}

func (r Result) OK() bool {
	return r.Err == nil
}

type Config struct {
	Workers int
	Options packet.Options
	// KeepTree retains the decoded tree on each Result.
	KeepTree bool
}

type Processor struct {
	workers  int
	opts     packet.Options
	keepTree bool
}

func New(cfg Config) *Processor {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Processor{workers: workers, opts: cfg.Options, keepTree: cfg.KeepTree}
}

// Process parses, decodes and evaluates one transmission. Failures are
// recorded on the Result rather than returned.
func (p *Processor) Process(in Input) Result {
	start := time.Now()
	res := p.process(in)

	outcome := "ok"
	if res.Err != nil {
		outcome = string(res.Stage)
		log.Warn().
			Int("line", in.Line).
			Str("stage", outcome).
			Err(res.Err).
			Msg("transmission failed")
	} else {
		log.Debug().
			Int("line", in.Line).
			Int("packets", res.Packets).
			Uint64("version_sum", res.VersionSum).
			Uint64("value", res.Value).
			Msg("transmission decoded")
	}
	observability.RecordTransmission(outcome, res.Packets, time.Since(start))
	return res
}

func (p *Processor) process(in Input) Result {
	res := Result{Line: in.Line, Transmission: in.Transmission}

	tx, err := bitio.ParseHex(in.Transmission)
	if err != nil {
		return res.fail(StageParse, err)
	}
	tree, err := packet.Decode(tx, p.opts)
	if err != nil {
		return res.fail(StageDecode, err)
	}
	res.Packets = packet.Count(tree)
	res.VersionSum = eval.VersionSum(tree)
	if p.keepTree {
		res.Packet = tree
	}

	v, err := eval.Evaluate(tree)
	if err != nil {
		return res.fail(StageEvaluate, err)
	}
	res.Value = v
	return res
}

func (r Result) fail(stage Stage, err error) Result {
	r.Stage = stage
	r.Err = err
	r.Error = err.Error()
	return r
}

// Batch processes inputs on a bounded worker pool. Results keep input
// order. The only error returned is ctx's.
func (p *Processor) Batch(ctx context.Context, inputs []Input) ([]Result, error) {
	results := make([]Result, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.Process(in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ReadInputs splits r into trimmed, non-blank lines numbered from 1.
func ReadInputs(r io.Reader) ([]Input, error) {
	var inputs []Input
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		inputs = append(inputs, Input{Line: line, Transmission: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input line %d: %w", line+1, err)
	}
	return inputs, nil
}

// Failed counts results carrying an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.OK() {
			n++
		}
	}
	return n
}
