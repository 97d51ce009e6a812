// Package pipeline wires the file-transform case study onto a recell
// graph: an uploaded delimited file is parsed into a table, optionally
// cleaned, and serialized into a downloadable artifact. Each stage is a
// derived cell, so re-reading an unchanged stage costs nothing and a
// new upload invalidates exactly the stages that depend on it.
package pipeline

import (
	"bytes"
	"path"
	"strings"

	"github.com/recell/recell"
	"github.com/recell/recell/delim"
	"github.com/recell/recell/table"
)

// Upload is the record supplied by the upload source on each upload
// event. Content is this pipeline's private copy of the file bytes; the
// source's transient handle must not be retained past SetUpload.
type Upload struct {
	Name      string
	SizeBytes int64
	MIMEType  string
	Content   []byte
}

// Options are the user-facing knobs of the case study: how to parse
// the file and which cleaning steps to apply.
type Options struct {
	Delimiter           rune
	SkipRows            int
	SnakeCaseColumns    bool
	DropEmptyColumns    bool
	DropConstantColumns bool
}

// Artifact is what the download sink receives.
type Artifact struct {
	Filename string
	Bytes    []byte
}

// Parser turns upload bytes into a table. delim is the default.
type Parser interface {
	Parse(content []byte, delimiter rune, skipRows int) (table.Table, error)
}

// Serializer turns the cleaned table into download bytes.
type Serializer interface {
	Write(t table.Table) ([]byte, error)
}

// Sink receives the artifact when the user requests a download.
type Sink interface {
	Receive(a Artifact) error
}

type config struct {
	parser     Parser
	serializer Serializer
	graphOpts  []recell.GraphOption
}

// Option configures a pipeline at construction.
type Option func(*config)

// WithParser replaces the default delimited-text parser.
func WithParser(p Parser) Option {
	return func(cfg *config) { cfg.parser = p }
}

// WithSerializer replaces the default delimited-text serializer.
func WithSerializer(s Serializer) Option {
	return func(cfg *config) { cfg.serializer = s }
}

// WithGraphOptions forwards options (extensions, tags) to the
// underlying graph.
func WithGraphOptions(opts ...recell.GraphOption) Option {
	return func(cfg *config) { cfg.graphOpts = append(cfg.graphOpts, opts...) }
}

// Pipeline owns one session's graph and the cells of the case study.
type Pipeline struct {
	graph    *recell.Graph
	upload   *recell.Cell[Upload]
	options  *recell.Cell[Options]
	parsed   *recell.Cell[table.Table]
	cleaned  *recell.Cell[table.Table]
	artifact *recell.Cell[Artifact]
}

// New builds the pipeline graph. Nothing is evaluated until the first
// stage read; the options cell starts with defaults so only the upload
// can be not-ready.
func New(opts ...Option) *Pipeline {
	cfg := &config{
		parser:     delimParser{},
		serializer: delimSerializer{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	g := recell.NewGraph(cfg.graphOpts...)

	upload := recell.NewInput[Upload](g,
		recell.WithTag(recell.CellName(), "upload"),
	)
	options := recell.NewInput[Options](g,
		recell.WithTag(recell.CellName(), "options"),
	)

	parsed := recell.NewDerived(g, func(ec *recell.EvalCtx) (table.Table, error) {
		up, err := recell.Use(ec, upload)
		if err != nil {
			return table.Table{}, err
		}
		opt, err := recell.Use(ec, options)
		if err != nil {
			return table.Table{}, err
		}
		return cfg.parser.Parse(up.Content, opt.Delimiter, opt.SkipRows)
	},
		recell.WithTag(recell.CellName(), "parsed"),
		recell.WithUpstream(upload, options),
	)

	cleaned := recell.NewDerived(g, func(ec *recell.EvalCtx) (table.Table, error) {
		t, err := recell.Use(ec, parsed)
		if err != nil {
			return table.Table{}, err
		}
		opt, err := recell.Use(ec, options)
		if err != nil {
			return table.Table{}, err
		}
		if opt.SnakeCaseColumns {
			t = table.SnakeCaseColumns(t)
		}
		if opt.DropEmptyColumns {
			t = table.DropEmptyColumns(t)
		}
		if opt.DropConstantColumns {
			t = table.DropConstantColumns(t)
		}
		return t, nil
	},
		recell.WithTag(recell.CellName(), "cleaned"),
		recell.WithUpstream(parsed, options),
	)

	artifact := recell.NewDerived(g, func(ec *recell.EvalCtx) (Artifact, error) {
		t, err := recell.Use(ec, cleaned)
		if err != nil {
			return Artifact{}, err
		}
		up, err := recell.Use(ec, upload)
		if err != nil {
			return Artifact{}, err
		}
		data, err := cfg.serializer.Write(t)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Filename: downloadName(up.Name), Bytes: data}, nil
	},
		recell.WithTag(recell.CellName(), "artifact"),
		recell.WithUpstream(cleaned, upload),
	)

	p := &Pipeline{
		graph:    g,
		upload:   upload,
		options:  options,
		parsed:   parsed,
		cleaned:  cleaned,
		artifact: artifact,
	}
	// Defaults mirror an untouched options widget.
	_ = recell.Set(g, options, Options{})
	return p
}

// SetUpload installs a new upload, copying the content out of the
// source's transient handle, and invalidates every dependent stage.
func (p *Pipeline) SetUpload(u Upload) error {
	u.Content = append([]byte(nil), u.Content...)
	if u.SizeBytes == 0 {
		u.SizeBytes = int64(len(u.Content))
	}
	return recell.Set(p.graph, p.upload, u)
}

// SetOptions installs new parse/clean options and invalidates every
// dependent stage.
func (p *Pipeline) SetOptions(o Options) error {
	return recell.Set(p.graph, p.options, o)
}

// Parsed returns the raw parsed table.
func (p *Pipeline) Parsed() (table.Table, error) {
	return recell.Read(p.graph, p.parsed)
}

// Cleaned returns the table after the enabled cleaning steps.
func (p *Pipeline) Cleaned() (table.Table, error) {
	return recell.Read(p.graph, p.cleaned)
}

// Download returns the serialized artifact for the current upload and
// options. Repeated calls without changes return the memoized artifact.
func (p *Pipeline) Download() (Artifact, error) {
	return recell.Read(p.graph, p.artifact)
}

// SendTo evaluates the artifact and hands it to the sink.
func (p *Pipeline) SendTo(s Sink) error {
	a, err := p.Download()
	if err != nil {
		return err
	}
	return s.Receive(a)
}

// Graph exposes the underlying graph for extensions and tests.
func (p *Pipeline) Graph() *recell.Graph {
	return p.graph
}

// Dispose releases the session's graph.
func (p *Pipeline) Dispose() error {
	return p.graph.Dispose()
}

// downloadName derives the artifact filename from the upload name:
// "report.csv" -> "report-cleaned.csv".
func downloadName(uploadName string) string {
	base := path.Base(strings.TrimSpace(uploadName))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	ext := path.Ext(base)
	return strings.TrimSuffix(base, ext) + "-cleaned.csv"
}

type delimParser struct{}

func (delimParser) Parse(content []byte, delimiter rune, skipRows int) (table.Table, error) {
	return delim.Parse(bytes.NewReader(content), delim.ParseOptions{
		Delimiter: delimiter,
		SkipRows:  skipRows,
	})
}

type delimSerializer struct{}

func (delimSerializer) Write(t table.Table) ([]byte, error) {
	return delim.Bytes(t, ',')
}
