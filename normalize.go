package colmatch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nao1215/colmatch/domain/model"
)

// Canonical names produced by the semantic renaming pass
const (
	ColumnActionName       = "ACTION_NAME"
	ColumnActionID         = "ACTION_ID"
	ColumnCompleteViewRate = "COMPLETE_VIEW_RATE"
	ColumnViewRate         = "VIEW_RATE"
	ColumnDay              = "DAY"
)

// dayPattern matches cells that start with a YYYY-MM-DD date.
var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// CanonicalName upper-cases name and replaces spaces with underscores.
// Applying it twice gives the same result as applying it once.
func CanonicalName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// renameRule maps a column to target when match reports true.
type renameRule struct {
	target string
	match  func(name string, values func() []string) bool
}

// renameRules are tried in order; the first match wins.
var renameRules = []renameRule{
	{
		target: ColumnActionName,
		match: func(name string, _ func() []string) bool {
			return containsAll(name, "ACTION") && name != ColumnActionID
		},
	},
	{
		target: ColumnCompleteViewRate,
		match: func(name string, _ func() []string) bool {
			return containsAll(name, "COMPLETE", "RATE")
		},
	},
	{
		target: ColumnViewRate,
		match: func(name string, _ func() []string) bool {
			return containsAll(name, "VIEW", "RATE")
		},
	},
	{
		target: ColumnDay,
		match: func(_ string, values func() []string) bool {
			for _, v := range values() {
				if dayPattern.MatchString(v) {
					return true
				}
			}
			return false
		},
	},
}

// containsAll reports whether name contains every part, ignoring case.
func containsAll(name string, parts ...string) bool {
	upper := strings.ToUpper(name)
	for _, p := range parts {
		if !strings.Contains(upper, p) {
			return false
		}
	}
	return true
}

// SemanticName returns the name the renaming rules give to column i of t,
// or its current name when no rule applies.
func SemanticName(t *model.Table, i int) string {
	name := t.Header()[i]
	values := func() []string { return t.ColumnValues(i) }
	for _, rule := range renameRules {
		if rule.match(name, values) {
			return rule.target
		}
	}
	return name
}

// Normalizer rewrites raw column names into reference schema names.
type Normalizer struct {
	// ChangeColName enables the semantic renaming pass.
	ChangeColName bool
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(changeColName bool) *Normalizer {
	return &Normalizer{ChangeColName: changeColName}
}

// Normalize returns t with canonical column names and, when ChangeColName is
// set, semantically renamed columns. Values are untouched. Two columns that
// end up with the same name fail with ErrColumnCollision.
func (n *Normalizer) Normalize(t *model.Table) (*model.Table, error) {
	raw := t.Header()

	canonical := make(model.Header, len(raw))
	for i, name := range raw {
		canonical[i] = CanonicalName(name)
	}
	if err := checkCollisions(raw, canonical); err != nil {
		return nil, err
	}

	normalized, err := t.WithHeader(canonical)
	if err != nil {
		return nil, err
	}
	if !n.ChangeColName {
		return normalized, nil
	}

	renamed := make(model.Header, len(canonical))
	for i := range canonical {
		renamed[i] = SemanticName(normalized, i)
	}
	if err := checkCollisions(raw, renamed); err != nil {
		return nil, err
	}
	return normalized.WithHeader(renamed)
}

// checkCollisions fails when two source columns map to the same name.
func checkCollisions(source, mapped model.Header) error {
	dups := mapped.Duplicates()
	if len(dups) == 0 {
		return nil
	}

	details := make([]string, 0, len(dups))
	for _, dup := range dups {
		var from []string
		for i, name := range mapped {
			if name == dup {
				from = append(from, fmt.Sprintf("%q", source[i]))
			}
		}
		details = append(details, fmt.Sprintf("%s <- %s", dup, strings.Join(from, ", ")))
	}
	return fmt.Errorf("%w: %s", ErrColumnCollision, strings.Join(details, "; "))
}
