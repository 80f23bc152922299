package erb

import (
	"regexp"
	"strings"

	"github.com/yaklabco/herblint/pkg/erbast"
)

// tagRole is what an ERB tag does to the control-flow structure.
type tagRole uint8

const (
	roleContent tagRole = iota
	roleOpen
	roleBranch
	roleEnd
)

//nolint:gochecknoglobals // Compiled once.
var (
	blockOpenPattern   = regexp.MustCompile(`(\bdo|\{)\s*(\|[^|]*\|)?\s*$`)
	trailingEndPattern = regexp.MustCompile(`\bend\s*$`)
)

// classifyERB decides the control-flow role of an ERB tag from its code.
// Comments never affect structure.
func classifyERB(open, code string) (tagRole, erbast.NodeKind, erbast.BranchKind) {
	if strings.HasPrefix(open, "<%#") {
		return roleContent, erbast.NodeERBContent, erbast.BranchNone
	}

	trimmed := strings.TrimSpace(code)
	keyword := firstWord(trimmed)

	switch keyword {
	case "end":
		return roleEnd, erbast.NodeERBEnd, erbast.BranchNone
	case "elsif":
		return roleBranch, erbast.NodeERBBranch, erbast.BranchElsif
	case "else":
		return roleBranch, erbast.NodeERBBranch, erbast.BranchElse
	case "when":
		return roleBranch, erbast.NodeERBBranch, erbast.BranchWhen
	case "in":
		return roleBranch, erbast.NodeERBBranch, erbast.BranchIn
	case "rescue":
		return roleBranch, erbast.NodeERBBranch, erbast.BranchRescue
	case "ensure":
		return roleBranch, erbast.NodeERBBranch, erbast.BranchEnsure
	}

	if trimmed == "}" {
		return roleEnd, erbast.NodeERBEnd, erbast.BranchNone
	}

	// One-line forms such as "if x then y end" open nothing.
	if trailingEndPattern.MatchString(trimmed) && keyword != "" {
		return roleContent, erbast.NodeERBContent, erbast.BranchNone
	}

	switch keyword {
	case "if":
		return roleOpen, erbast.NodeERBIf, erbast.BranchIf
	case "unless":
		return roleOpen, erbast.NodeERBIf, erbast.BranchUnless
	case "case":
		return roleOpen, erbast.NodeERBCase, erbast.BranchCase
	case "while":
		return roleOpen, erbast.NodeERBLoop, erbast.BranchWhile
	case "until":
		return roleOpen, erbast.NodeERBLoop, erbast.BranchUntil
	case "for":
		return roleOpen, erbast.NodeERBLoop, erbast.BranchFor
	case "begin":
		return roleOpen, erbast.NodeERBBegin, erbast.BranchBegin
	}

	if blockOpenPattern.MatchString(trimmed) {
		return roleOpen, erbast.NodeERBLoop, erbast.BranchBlock
	}

	return roleContent, erbast.NodeERBContent, erbast.BranchNone
}

// firstWord returns the leading identifier of code.
func firstWord(code string) string {
	end := 0
	for end < len(code) {
		c := code[end]
		if !(isASCIILetter(c) || c == '_' || (c >= '0' && c <= '9')) {
			break
		}
		end++
	}
	return code[:end]
}
