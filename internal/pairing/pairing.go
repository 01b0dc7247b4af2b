// Package pairing validates that "issue" tags and their configured
// "recovery" tags occur in matching counts across an episode's committed
// frames.
package pairing

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/framemark/framemark/internal/models"
)

// Pair relates an issue tag to the recovery tag expected to balance it.
// Several issue tags may share one recovery tag; together they form a
// recovery group whose issue occurrences are summed.
type Pair struct {
	Issue    models.IssueTag `yaml:"issue"`
	Recovery models.IssueTag `yaml:"recovery"`
}

// Table is an ordered list of pairs. Warning output follows table order,
// not input-frame order.
type Table []Pair

// DefaultTable pairs the built-in issue vocabulary.
var DefaultTable = Table{
	{Issue: models.IssueLeftArmMissed, Recovery: models.IssueLeftArmRecovery},
	{Issue: models.IssueLeftArmDrop, Recovery: models.IssueLeftArmRecovery},
	{Issue: models.IssueRightArmMissed, Recovery: models.IssueRightArmRecovery},
	{Issue: models.IssueRightArmDrop, Recovery: models.IssueRightArmRecovery},
	{Issue: models.IssueGraspSlip, Recovery: models.IssueGraspRecovery},
	{Issue: models.IssueCollision, Recovery: models.IssueCollisionFixed},
}

// LoadTable reads a pairing table from a YAML file. The file holds a list
// of {issue, recovery} entries.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pairing table: %w", err)
	}

	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse pairing table: %w", err)
	}

	for i, p := range table {
		if p.Issue == "" || p.Recovery == "" {
			return nil, fmt.Errorf("pairing table entry %d: issue and recovery are required", i)
		}
	}
	return table, nil
}

// group is one recovery tag with its issue tags in table order.
type group struct {
	recovery models.IssueTag
	issues   []models.IssueTag
}

// groups folds the table into recovery groups, preserving first-appearance
// order of each recovery tag.
func (t Table) groups() []group {
	index := make(map[models.IssueTag]int, len(t))
	var out []group
	for _, p := range t {
		i, ok := index[p.Recovery]
		if !ok {
			i = len(out)
			index[p.Recovery] = i
			out = append(out, group{recovery: p.Recovery})
		}
		out[i].issues = append(out[i].issues, p.Issue)
	}
	return out
}

// Check compares issue and recovery occurrence counts over the given
// frames and returns one human-readable warning per mismatched recovery
// group. It is pure: callers decide which frame set (normally the last
// committed one) it runs over.
func Check(table Table, frames []models.FrameRecord) []string {
	var warnings []string
	for _, g := range table.groups() {
		issueCount := 0
		for _, tag := range g.issues {
			for _, f := range frames {
				if f.HasIssue(tag) {
					issueCount++
				}
			}
		}
		recoveryCount := 0
		for _, f := range frames {
			if f.HasIssue(g.recovery) {
				recoveryCount++
			}
		}

		// A group that never occurs is not a mismatch.
		if issueCount == 0 && recoveryCount == 0 {
			continue
		}
		if issueCount != 0 && issueCount != recoveryCount {
			names := make([]string, len(g.issues))
			for i, tag := range g.issues {
				names[i] = string(tag)
			}
			warnings = append(warnings, fmt.Sprintf("%s (%d×) should match %s (%d×)",
				strings.Join(names, "+"), issueCount, g.recovery, recoveryCount))
		}
	}
	return warnings
}
