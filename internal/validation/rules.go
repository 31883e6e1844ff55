// Package validation applies the per-category field-compliance schema to
// individual search result records. Rules are data keyed by information type,
// so adding a category is a table edit rather than new branching logic.
package validation

import (
	"fmt"
	"strings"

	"SearchAudit/internal/domain"
)

// rule is the compliance schema of one information type. A nil prefix means
// the category carries no prefix convention; an empty prefix means the id
// must not start with any other category's prefix.
type rule struct {
	requireSource  bool
	requireJumpURL bool
	prefix         *string
}

var (
	prefixNW   = "NW"
	prefixAP   = "AP"
	prefixAN   = "AN"
	prefixLA   = "LA"
	prefixBOND = "BOND"
	prefixPS   = "PS"
	prefixNone = ""
)

// knownPrefixes are the prefixes a no-prefix category must not leak.
var knownPrefixes = []string{prefixNW, prefixAP, prefixAN, prefixLA, prefixBOND, prefixPS}

var rules = map[domain.InformationType]rule{
	domain.TypeNews:        {requireSource: true, prefix: &prefixNW},
	domain.TypeReport:      {prefix: &prefixAP},
	domain.TypeNotice:      {prefix: &prefixAN},
	domain.TypeCFH:         {requireSource: true, prefix: &prefixNone},
	domain.TypeLaw:         {requireSource: true, prefix: &prefixLA},
	domain.TypeBond:        {requireSource: true, prefix: &prefixBOND},
	domain.TypeWechat:      {requireSource: true, requireJumpURL: true},
	domain.TypeInteraction: {requireSource: true, prefix: &prefixPS},
	domain.TypeInvNews:     {requireJumpURL: true},
	domain.TypeHotNews:     {requireSource: true, requireJumpURL: true},
}

// Validate applies every field rule to one record and returns the violated
// ones as human-readable reasons, in stable rule order. Rules are evaluated
// independently; one record may carry several simultaneous violations. An
// empty slice means the record is compliant.
func Validate(rec domain.ResultRecord) []string {
	var reasons []string

	if rec.Title == "" {
		reasons = append(reasons, "title is empty (null or '')")
	}
	if rec.ShowTime == "" {
		reasons = append(reasons, "showTime is empty (null or '')")
	}
	if rec.InformationType == "" {
		reasons = append(reasons, "informationType is empty (null or '')")
	}

	r, known := rules[rec.InformationType]
	if !known {
		// Categories outside the schema are not checked further.
		return reasons
	}

	if r.requireSource && rec.Source == "" {
		reasons = append(reasons, "source is empty (null or '') but informationType requires it")
	}
	if r.requireJumpURL && rec.JumpURL == "" {
		reasons = append(reasons, "jumpUrl is empty (null or '') but informationType requires it")
	}

	if r.prefix != nil && rec.ID != "" {
		if reason := checkPrefix(rec.ID, *r.prefix); reason != "" {
			reasons = append(reasons, reason)
		}
	}

	return reasons
}

// JoinReasons renders the reasons the way they are persisted.
func JoinReasons(reasons []string) string {
	return strings.Join(reasons, "; ")
}

func checkPrefix(id, expected string) string {
	if expected == "" {
		for _, p := range knownPrefixes {
			if strings.HasPrefix(id, p) {
				return fmt.Sprintf("id should carry no prefix but starts with: %s", head(id, 2))
			}
		}
		return ""
	}

	if !strings.HasPrefix(id, expected) {
		return fmt.Sprintf("id prefix should be %s but got: %s", expected, head(id, len(expected)))
	}
	return ""
}

func head(id string, n int) string {
	if len(id) < n {
		return id
	}
	return id[:n]
}
