package unityver

import "fmt"

// Op is a version predicate operator.
type Op uint8

const (
	OpAlways Op = iota
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpRange // Lo <= v < Hi
)

// Gate guards a field block on the object's engine version.
type Gate struct {
	Op Op
	Lo Version
	Hi Version
}

func Always() Gate { return Gate{Op: OpAlways} }
func Below(v Version) Gate { return Gate{Op: OpLess, Lo: v} }
func AtMost(v Version) Gate { return Gate{Op: OpLessEq, Lo: v} }
func Above(v Version) Gate { return Gate{Op: OpGreater, Lo: v} }
func AtLeast(v Version) Gate { return Gate{Op: OpGreaterEq, Lo: v} }
func Between(lo, hi Version) Gate { return Gate{Op: OpRange, Lo: lo, Hi: hi} }

// Match reports whether v satisfies the gate.
func (g Gate) Match(v Version) bool {
	switch g.Op {
	case OpAlways:
		return true
	case OpLess:
		return v.Compare(g.Lo) < 0
	case OpLessEq:
		return v.Compare(g.Lo) <= 0
	case OpGreater:
		return v.Compare(g.Lo) > 0
	case OpGreaterEq:
		return v.Compare(g.Lo) >= 0
	case OpRange:
		return v.Compare(g.Lo) >= 0 && v.Compare(g.Hi) < 0
	}
	return false
}

func (g Gate) String() string {
	switch g.Op {
	case OpAlways:
		return "always"
	case OpLess:
		return "< " + g.Lo.String()
	case OpLessEq:
		return "<= " + g.Lo.String()
	case OpGreater:
		return "> " + g.Lo.String()
	case OpGreaterEq:
		return ">= " + g.Lo.String()
	case OpRange:
		return fmt.Sprintf("[%s, %s)", g.Lo, g.Hi)
	}
	return fmt.Sprintf("op(%d)", g.Op)
}
