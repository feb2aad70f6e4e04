package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/jvitoroc/ruleast/config"
	"github.com/jvitoroc/ruleast/eval"
	"github.com/jvitoroc/ruleast/rule"
	"github.com/jvitoroc/ruleast/ruleset"
)

const usage = `usage: ruleast [-config file] <command> [flags] [args]

commands:
  parse    [-repr] <rule>                         print the tree of a rule
  combine  [-op AND|OR] <rule>...                 print the combined tree of several rules
  eval     (-rule <rule> | -ast <file>) [-data <json>] [-value]
                                                  evaluate a rule against a record
  check    [-rules <file>] [-data <json>]         print the first rule the record satisfies
  bundle   [-rules <file>] -out <file>            compile a rule file into a bundle
`

var errUsage = errors.New("invalid usage")

type engine struct {
	cfg    config.Config
	logger *slog.Logger

	fs billy.Filesystem
	// resolve maps a command line path to a path on fs.
	resolve func(string) string

	stdout io.Writer
}

func (e *engine) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command\n%s", errUsage, usage)
	}

	cmd, args := args[0], args[1:]
	e.logger.Debug("running command", slog.String("command", cmd))

	switch cmd {
	case "parse":
		return e.parse(args)
	case "combine":
		return e.combine(args)
	case "eval":
		return e.evaluate(args)
	case "check":
		return e.check(ctx, args)
	case "bundle":
		return e.bundle(args)
	}

	return fmt.Errorf("%w: unknown command '%s'\n%s", errUsage, cmd, usage)
}

func (e *engine) flags(name string) *flag.FlagSet {
	fset := flag.NewFlagSet(name, flag.ContinueOnError)
	fset.SetOutput(io.Discard)

	return fset
}

func (e *engine) parse(args []string) error {
	fset := e.flags("parse")
	repr := fset.Bool("repr", false, "print the debug form instead of JSON")
	if err := fset.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	if fset.NArg() == 0 {
		return fmt.Errorf("%w: parse needs a rule", errUsage)
	}

	expr, err := rule.Parse(strings.Join(fset.Args(), " "))
	if err != nil {
		return err
	}

	if *repr {
		_, err = fmt.Fprintln(e.stdout, expr.String())
		return err
	}

	return e.printTree(expr)
}

func (e *engine) combine(args []string) error {
	fset := e.flags("combine")
	op := fset.String("op", string(e.cfg.ConnectiveOperator()), "connective joining the rules, AND or OR")
	if err := fset.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	expr, err := rule.Combine(fset.Args(), eval.OperatorType(strings.ToUpper(*op)))
	if err != nil {
		return err
	}

	if expr == nil {
		_, err = fmt.Fprintln(e.stdout, "null")
		return err
	}

	return e.printTree(expr)
}

func (e *engine) evaluate(args []string) error {
	fset := e.flags("eval")
	ruleStr := fset.String("rule", "", "rule to evaluate")
	astPath := fset.String("ast", "", "file holding a serialized tree")
	data := fset.String("data", "{}", "record as a JSON object")
	value := fset.Bool("value", false, "print the evaluated value instead of the verdict")
	if err := fset.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	if (*ruleStr == "") == (*astPath == "") {
		return fmt.Errorf("%w: eval needs exactly one of -rule and -ast", errUsage)
	}

	var expr *eval.Expression
	var err error
	if *ruleStr != "" {
		expr, err = rule.Parse(*ruleStr)
	} else {
		expr, err = e.readTree(*astPath)
	}
	if err != nil {
		return err
	}

	record, err := e.record(*data)
	if err != nil {
		return err
	}

	defaults, err := e.cfg.DefaultRecord()
	if err != nil {
		return err
	}

	v, err := eval.Evaluate(expr, record.Alias(e.cfg.Aliases).Merge(defaults))
	if err != nil {
		return err
	}

	if *value {
		_, err = fmt.Fprintln(e.stdout, v.String())
		return err
	}

	_, err = fmt.Fprintln(e.stdout, v.Truthy())
	return err
}

func (e *engine) check(ctx context.Context, args []string) error {
	fset := e.flags("check")
	rules := fset.String("rules", e.cfg.Rules, "rule file (.yaml, .yml or .bundle)")
	data := fset.String("data", "{}", "record as a JSON object")
	if err := fset.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	s, err := e.loadRules(*rules)
	if err != nil {
		return err
	}

	record, err := e.record(*data)
	if err != nil {
		return err
	}

	r, err := s.FirstMatch(ctx, record)
	if err != nil {
		return err
	}

	if r == nil {
		_, err = fmt.Fprintln(e.stdout, "none")
		return err
	}

	_, err = fmt.Fprintln(e.stdout, r.Name)
	return err
}

func (e *engine) bundle(args []string) error {
	fset := e.flags("bundle")
	rules := fset.String("rules", e.cfg.Rules, "YAML rule file")
	out := fset.String("out", "", "bundle to write")
	if err := fset.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	if *out == "" {
		return fmt.Errorf("%w: bundle needs -out", errUsage)
	}

	s, err := e.loadRules(*rules)
	if err != nil {
		return err
	}

	if err := s.WriteBundle(e.fs, e.resolve(*out)); err != nil {
		return err
	}

	e.logger.Info("bundle written",
		slog.String("path", *out),
		slog.Int("rules", s.Len()),
	)

	return nil
}

func (e *engine) loadRules(path string) (*ruleset.RuleSet, error) {
	defaults, err := e.cfg.DefaultRecord()
	if err != nil {
		return nil, err
	}

	opts := []ruleset.Option{
		ruleset.WithLogger(e.logger),
		ruleset.WithAliases(e.cfg.Aliases),
		ruleset.WithDefaults(defaults),
	}

	if strings.EqualFold(filepath.Ext(path), ".bundle") {
		return ruleset.ReadBundle(e.fs, e.resolve(path), opts...)
	}

	return ruleset.Load(e.fs, e.resolve(path), opts...)
}

func (e *engine) readTree(path string) (*eval.Expression, error) {
	data, err := util.ReadFile(e.fs, e.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}

	return eval.ParseJSON(data)
}

func (e *engine) record(data string) (eval.Record, error) {
	return eval.ParseRecord([]byte(data))
}

func (e *engine) printTree(expr *eval.Expression) error {
	b, err := eval.MarshalJSON(expr)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(e.stdout, "%s\n", b)
	return err
}
