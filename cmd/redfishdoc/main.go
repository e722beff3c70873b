// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/redfishdoc

// redfishdoc generates CommonMark and CSV docs from Redfish JSON Schema sets.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/redfishdoc"
)

const (
	formatMarkdown = "markdown"
	formatCSV      = "csv"
)

var (
	Version    = "dev"
	Commit     = "unknown"
	BuildTime  = time.Unix(0, 0)
	URL        = "https://github.com/woozymasta/redfishdoc"
	_buildTime string
)

// cliOptions describes redfishdoc CLI flags and subcommands.
type cliOptions struct {
	Global globalFlags `group:"Global"`

	Version  versionCommand  `command:"version" description:"Print version information"`
	Template templateCommand `command:"template" description:"Print built-in markdown template"`
	Generate generateCommand `command:"generate" description:"Render documentation for a schema set"`
	Meta     metaCommand     `command:"meta" description:"Print version metadata of one schema"`
	Check    checkCommand    `command:"check" description:"Report references that do not resolve"`
	Example  exampleCommand  `command:"example" description:"Generate example payload for one schema"`
}

// globalFlags apply to every command.
type globalFlags struct {
	Verbose []bool `short:"v" long:"verbose" description:"Increase diagnostics verbosity (repeat for more)"`
	Config  string `short:"c" long:"config" description:"Config file (yaml, toml or json)"`
}

// sourceFlags select schema inputs and reference resolution.
type sourceFlags struct {
	RootURI      string        `long:"root-uri" description:"URI that qualifies bare schema names"`
	URIToLocal   []string      `long:"uri-to-local" description:"Map URI prefix to local directory (prefix=dir); repeatable"`
	LocalToURI   []string      `long:"local-to-uri" description:"Map local directory to URI prefix (dir=prefix); repeatable"`
	FetchTimeout time.Duration `long:"fetch-timeout" description:"Timeout for one remote schema fetch"`
}

// markdownRenderFlags groups markdown rendering flags.
type markdownRenderFlags struct {
	TemplateName string `short:"t" long:"template" description:"Built-in template style" choice:"list" choice:"table"`
	TemplatePath string `short:"f" long:"template-file" description:"Path to custom markdown template (.gotmpl)"`
	Title        string `short:"T" long:"title" description:"Markdown document title"`
	ListMarker   string `short:"l" long:"list-marker" description:"Unordered list marker for normalized descriptions" choice:"-" choice:"*" default:"*"`
	WrapWidth    int    `short:"w" long:"wrap" description:"Wrap width for plain text descriptions"`
}

// filterFlags groups exclusion and combining flags.
type filterFlags struct {
	ExcludeProperty    []string `long:"exclude-property" description:"Exclude property by exact name; repeatable"`
	ExcludeMatch       []string `long:"exclude-match" description:"Exclude properties containing substring; repeatable"`
	ExcludeSchema      []string `long:"exclude-schema" description:"Exclude schema by exact name; repeatable"`
	ExcludeSchemaMatch []string `long:"exclude-schema-match" description:"Exclude schemas containing substring; repeatable"`
	Combine            int      `long:"combine-refs" description:"Render definitions expanded at least N times once, in a shared section"`
}

// generateCommand renders documentation for every schema in the inputs.
type generateCommand struct {
	runner *cliRunner

	Output  string `short:"o" long:"output" description:"Output file path (stdout when omitted)"`
	Format  string `short:"F" long:"format" description:"Output format" choice:"markdown" choice:"csv"`
	Example string `short:"e" long:"example" description:"Embed example payloads" choice:"all" choice:"required"`
	ExFmt   string `long:"example-format" description:"Embedded example format" choice:"json" choice:"yaml" default:"json"`

	Source  sourceFlags         `group:"Sources"`
	Filters filterFlags         `group:"Filters"`
	Render  markdownRenderFlags `group:"Markdown Render"`

	Args struct {
		Inputs []string `positional-arg-name:"input" description:"Schema files, directories or URIs" required:"1"`
	} `positional-args:"yes"`
}

// Execute runs generate subcommand.
func (command *generateCommand) Execute(_ []string) error {
	return command.runner.runGenerate(command)
}

// metaCommand prints the version metadata tree of one schema.
type metaCommand struct {
	runner *cliRunner

	JSON   bool        `long:"json" description:"Print JSON instead of YAML"`
	Source sourceFlags `group:"Sources"`

	Args struct {
		Schema string   `positional-arg-name:"schema" description:"Schema name (for example: Thermal)" required:"yes"`
		Inputs []string `positional-arg-name:"input" description:"Schema files, directories or URIs" required:"1"`
	} `positional-args:"yes"`
}

// Execute runs meta subcommand.
func (command *metaCommand) Execute(_ []string) error {
	return command.runner.runMeta(command)
}

// checkCommand resolves every reference and reports the broken ones.
type checkCommand struct {
	runner *cliRunner

	Source sourceFlags `group:"Sources"`

	Args struct {
		Inputs []string `positional-arg-name:"input" description:"Schema files, directories or URIs" required:"1"`
	} `positional-args:"yes"`
}

// Execute runs check subcommand.
func (command *checkCommand) Execute(_ []string) error {
	return command.runner.runCheck(command)
}

// exampleCommand generates an example payload for one schema.
type exampleCommand struct {
	runner *cliRunner

	Mode   string      `short:"m" long:"mode" description:"Property coverage" choice:"all" choice:"required" default:"all"`
	Format string      `long:"format" description:"Payload format" choice:"json" choice:"yaml" default:"json"`
	Output string      `short:"o" long:"output" description:"Output file path (stdout when omitted)"`
	Source sourceFlags `group:"Sources"`

	Args struct {
		Schema string   `positional-arg-name:"schema" description:"Schema name (for example: Chassis)" required:"yes"`
		Inputs []string `positional-arg-name:"input" description:"Schema files, directories or URIs" required:"1"`
	} `positional-args:"yes"`
}

// Execute runs example subcommand.
func (command *exampleCommand) Execute(_ []string) error {
	return command.runner.runExample(command)
}

// templateCommand exports built-in markdown template.
type templateCommand struct {
	runner *cliRunner
	Args   struct {
		Output string `positional-arg-name:"output" description:"Output template file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	TemplateName string `short:"t" long:"template" description:"Built-in template style" choice:"list" choice:"table" default:"list"`
}

// Execute runs template subcommand.
func (command *templateCommand) Execute(_ []string) error {
	return command.runner.runTemplate(command.TemplateName, command.Args.Output)
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	command.runner.printVersionInfo()
	return nil
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	ctx         context.Context
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	programName string
	global      *globalFlags
	logger      *zap.Logger
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes CLI logic and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "redfishdoc"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := cliRunner{
		ctx:         ctx,
		programName: filepath.Base(programName),
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
		logger:      zap.NewNop(),
	}

	return runner.run(args)
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	_ = runner.logger.Sync()
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			writeCLIError(runner.stdout, err)
			return 0
		}

		writeCLIError(runner.stderr, err)
		return 2
	}

	writeCLIError(runner.stderr, err)
	return 1
}

// prepare builds the logger from global flags and loads file/env settings.
func (runner *cliRunner) prepare() (settings, error) {
	runner.logger = newLogger(runner.stderr, len(runner.global.Verbose))

	cfg, err := loadSettings(runner.global.Config)
	if err != nil {
		return settings{}, err
	}

	return cfg, nil
}

// loadGraph reads inputs and indexes them with source flags layered over settings.
func (runner *cliRunner) loadGraph(cfg settings, source sourceFlags, inputs []string) (*redfishdoc.Graph, []string, error) {
	uriToLocal, err := parsePairs(source.URIToLocal)
	if err != nil {
		return nil, nil, err
	}

	localToURI, err := parsePairs(source.LocalToURI)
	if err != nil {
		return nil, nil, err
	}

	options := redfishdoc.GraphOptions{
		RootURI:      firstNonEmpty(source.RootURI, cfg.RootURI),
		URIToLocal:   mergePairs(cfg.URIToLocal, uriToLocal),
		LocalToURI:   mergePairs(cfg.LocalToURI, localToURI),
		FetchTimeout: cfg.FetchTimeout,
		Logger:       runner.logger,
	}

	if source.FetchTimeout > 0 {
		options.FetchTimeout = source.FetchTimeout
	}

	loader := redfishdoc.Loader{
		Mapper: redfishdoc.URIMapper{
			RootURI:    options.RootURI,
			URIToLocal: options.URIToLocal,
			LocalToURI: options.LocalToURI,
		},
		SearchPaths:  searchPaths(inputs),
		FetchTimeout: options.FetchTimeout,
		Logger:       runner.logger,
	}

	docs := loader.LoadDocuments(runner.ctx, inputs)
	if len(docs) == 0 {
		return nil, nil, errors.Wrapf(redfishdoc.ErrNoSchemas, "%s", strings.Join(inputs, ", "))
	}

	runner.logger.Info("schemas loaded", zap.Int("documents", len(docs)))
	graph, missing := redfishdoc.BuildGraph(docs, options)
	return graph, missing, nil
}

// runGenerate renders markdown or CSV for the whole input set.
func (runner *cliRunner) runGenerate(command *generateCommand) error {
	cfg, err := runner.prepare()
	if err != nil {
		return err
	}

	graph, _, err := runner.loadGraph(cfg, command.Source, command.Args.Inputs)
	if err != nil {
		return err
	}

	combine := cfg.CombineMultipleRefs
	if command.Filters.Combine > 0 {
		combine = command.Filters.Combine
	}

	wrap := cfg.Wrap
	if command.Render.WrapWidth > 0 {
		wrap = command.Render.WrapWidth
	}

	renderOptions := redfishdoc.Options{
		Title:                  command.Render.Title,
		TemplateName:           firstNonEmpty(command.Render.TemplateName, cfg.Template),
		ListMarker:             command.Render.ListMarker,
		WrapWidth:              wrap,
		ExcludedProperties:     append(cfg.ExcludedProperties, command.Filters.ExcludeProperty...),
		ExcludedByMatch:        append(cfg.ExcludedByMatch, command.Filters.ExcludeMatch...),
		ExcludedSchemas:        append(cfg.ExcludedSchemas, command.Filters.ExcludeSchema...),
		ExcludedSchemasByMatch: append(cfg.ExcludedSchemasByMatch, command.Filters.ExcludeSchemaMatch...),
		CombineMultipleRefs:    combine,
		ExampleMode:            redfishdoc.ExampleMode(command.Example),
		ExampleFormat:          redfishdoc.ExampleFormat(command.ExFmt),
		Logger:                 runner.logger,
	}

	if command.Render.TemplatePath != "" {
		customTemplate, err := os.ReadFile(command.Render.TemplatePath)
		if err != nil {
			return errors.Wrapf(err, "read template file %q", command.Render.TemplatePath)
		}

		renderOptions.TemplateText = string(customTemplate)
	}

	switch firstNonEmpty(command.Format, cfg.Format) {
	case formatCSV:
		var out bytes.Buffer
		if err := redfishdoc.RenderCSV(runner.ctx, &out, graph, renderOptions); err != nil {
			return errors.Wrap(err, "render csv")
		}

		return runner.writeOutput(command.Output, out.Bytes())
	default:
		rendered, err := redfishdoc.Render(runner.ctx, graph, renderOptions)
		if err != nil {
			return errors.Wrap(err, "render markdown")
		}

		return runner.writeOutput(command.Output, []byte(rendered))
	}
}

// runMeta prints the MetaNode tree of one schema.
func (runner *cliRunner) runMeta(command *metaCommand) error {
	cfg, err := runner.prepare()
	if err != nil {
		return err
	}

	graph, _, err := runner.loadGraph(cfg, command.Source, command.Args.Inputs)
	if err != nil {
		return err
	}

	meta := graph.Meta(command.Args.Schema)
	if meta == nil {
		return errors.Wrapf(redfishdoc.ErrUnknownSchema, "%q", command.Args.Schema)
	}

	var data []byte
	if command.JSON {
		data, err = json.MarshalIndent(meta, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(meta)
	}

	if err != nil {
		return errors.Wrap(err, "encode metadata")
	}

	return runner.writeOutput("", data)
}

// runCheck lists broken references and missing version files.
func (runner *cliRunner) runCheck(command *checkCommand) error {
	cfg, err := runner.prepare()
	if err != nil {
		return err
	}

	graph, missing, err := runner.loadGraph(cfg, command.Source, command.Args.Inputs)
	if err != nil {
		return err
	}

	broken := graph.BrokenRefs(runner.ctx)
	for _, file := range missing {
		_, _ = fmt.Fprintf(runner.stdout, "missing: %s\n", file)
	}

	for _, ref := range broken {
		_, _ = fmt.Fprintf(runner.stdout, "broken: %s: %s\n", ref.SchemaURI, ref.Ref)
	}

	if len(broken) > 0 || len(missing) > 0 {
		return errors.Newf("%d broken references, %d missing files", len(broken), len(missing))
	}

	_, _ = fmt.Fprintf(runner.stdout, "ok: %d schemas\n", len(graph.Sequences()))
	return nil
}

// runExample writes an example payload of one schema.
func (runner *cliRunner) runExample(command *exampleCommand) error {
	cfg, err := runner.prepare()
	if err != nil {
		return err
	}

	graph, _, err := runner.loadGraph(cfg, command.Source, command.Args.Inputs)
	if err != nil {
		return err
	}

	data, err := redfishdoc.GenerateExample(runner.ctx, graph, command.Args.Schema,
		redfishdoc.ExampleMode(command.Mode), redfishdoc.ExampleFormat(command.Format))
	if err != nil {
		return errors.Wrap(err, "generate example")
	}

	return runner.writeOutput(command.Output, data)
}

// runTemplate writes selected built-in template to stdout or file.
func (runner *cliRunner) runTemplate(templateName, outputPath string) error {
	tpl, err := redfishdoc.BuiltinTemplate(templateName)
	if err != nil {
		return errors.Wrapf(err, "load built-in template %q", templateName)
	}

	return runner.writeOutput(outputPath, []byte(tpl))
}

// writeOutput writes data to outputPath, or stdout when the path is empty.
func (runner *cliRunner) writeOutput(outputPath string, data []byte) error {
	if strings.TrimSpace(outputPath) == "" {
		if _, err := runner.stdout.Write(data); err != nil {
			return errors.Wrap(err, "write to stdout")
		}

		return nil
	}

	if err := os.WriteFile(outputPath, data, 0o600); err != nil {
		return errors.Wrapf(err, "write file %q", outputPath)
	}

	return nil
}

// writeCLIError writes a plain-text CLI error line to the selected stream.
func writeCLIError(output io.Writer, err error) {
	if err == nil {
		return
	}

	//nolint:gosec // CLI writes plain-text diagnostics to terminal streams, not HTTP responses.
	_, _ = fmt.Fprintln(output, err.Error())
}

// parseCLIArgs parses CLI arguments and triggers selected subcommand execution.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	runner.global = &options.Global
	options.Version.runner = runner
	options.Template.runner = runner
	options.Generate.runner = runner
	options.Meta.runner = runner
	options.Check.runner = runner
	options.Example.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName
	applyCommandLongDescriptions(parser, runner.programName)

	_, err := parser.ParseArgs(args)
	if err != nil {
		return err
	}

	return nil
}

// applyCommandLongDescriptions configures detailed command help text with examples.
func applyCommandLongDescriptions(parser *flags.Parser, programName string) {
	descriptions := map[string]string{
		"template": strings.TrimSpace(fmt.Sprintf(`
Print built-in markdown template text (`+"`list` or `table`"+`).
Use it as a starting point for a custom template file.

Examples:
> $ %s template > list.gotmpl
> $ %s template -t table templates/table.gotmpl
`, programName, programName)),
		"generate": strings.TrimSpace(fmt.Sprintf(`
Render documentation for every schema found in the inputs.
Directories are scanned for *.json files; references to schemas outside the
inputs are fetched over HTTP unless --uri-to-local maps them to a directory.

Examples:
> $ %s generate -o redfish.md ./json-schema
> $ %s generate -F csv --exclude-match @odata ./json-schema > redfish.csv
`, programName, programName)),
		"meta": strings.TrimSpace(fmt.Sprintf(`
Print when each property, definition and enum value of a schema appeared
and was deprecated.

Examples:
> $ %s meta Thermal ./json-schema
> $ %s meta --json Chassis ./json-schema
`, programName, programName)),
		"check": strings.TrimSpace(fmt.Sprintf(`
Resolve every $ref of every input schema and list the ones that fail,
plus version files referenced by containers but not supplied.

Examples:
> $ %s check ./json-schema
`, programName)),
		"example": strings.TrimSpace(fmt.Sprintf(`
Generate an example payload for the newest version of a schema.

Examples:
> $ %s example Chassis ./json-schema
> $ %s example -m required --format yaml Thermal ./json-schema
`, programName, programName)),
	}

	for commandName, description := range descriptions {
		command := parser.Find(commandName)
		if command == nil {
			continue
		}

		command.LongDescription = description
	}
}

// searchPaths returns the directories of inputs, used to resolve bare file names.
func searchPaths(inputs []string) []string {
	seen := make(map[string]struct{}, len(inputs))
	out := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if strings.Contains(input, "://") {
			continue
		}

		dir := input
		if info, err := os.Stat(input); err != nil || !info.IsDir() {
			dir = filepath.Dir(input)
		}

		if _, ok := seen[dir]; ok {
			continue
		}

		seen[dir] = struct{}{}
		out = append(out, dir)
	}

	return out
}

// firstNonEmpty returns the first non-blank value.
func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}

	return ""
}

func (runner *cliRunner) printVersionInfo() {
	_, _ = fmt.Fprintf(runner.stdout, `url:      %s
file:     %s
version:  %s
commit:   %s
built:    %s
`, URL, runner.programName, Version, Commit, BuildTime)
}
