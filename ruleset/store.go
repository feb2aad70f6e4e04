package ruleset

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jvitoroc/ruleast/rule"
)

type ruleFile struct {
	Rules []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	ID        string `yaml:"id,omitempty"`
	Name      string `yaml:"name"`
	Condition string `yaml:"condition"`
}

// Load reads a YAML rule file:
//
//	rules:
//	  - name: senior_sales
//	    condition: age > 30 AND department = 'Sales'
//
// Entries without an id get a fresh one.
func Load(fs billy.Filesystem, path string, opts ...Option) (*RuleSet, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}

	s := New(opts...)
	for i, e := range f.Rules {
		r, err := newRule(e.ID, e.Name, e.Condition)
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", path, i, err)
		}

		if err := s.add(r); err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", path, i, err)
		}
	}

	return s, nil
}

// Save writes the rules in the format read by Load.
func (s *RuleSet) Save(fs billy.Filesystem, path string) error {
	var f ruleFile
	for _, r := range s.Rules() {
		f.Rules = append(f.Rules, ruleEntry{
			ID:        r.ID.String(),
			Name:      r.Name,
			Condition: r.Condition,
		})
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}

	if err := util.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write rules: %w", err)
	}

	return nil
}

func newRule(id, name, condition string) (*Rule, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	r := &Rule{
		ID:        uuid.New(),
		Name:      name,
		Condition: condition,
	}

	if id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("rule '%s': invalid id: %w", name, err)
		}
		r.ID = parsed
	}

	expr, err := rule.Parse(condition)
	if err != nil {
		return nil, fmt.Errorf("rule '%s': %w", name, err)
	}
	r.Expr = expr

	return r, nil
}
