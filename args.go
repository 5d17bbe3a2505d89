package ntjs

import (
	"fmt"

	"github.com/syntax-framework/ntjs/cmn"
)

var errorScriptArgs = cmn.Err(
	"ntjs.args",
	"Invalid script arguments, expected (name, content, depends) or (name, depends, content).", "Arguments: %s",
)

// ScriptArgs normalizes the two accepted orders of a script declaration: `name, content, depends` and
// `name, depends, content`. A sequence in the second position is the dependency list. Content and dependencies are
// optional.
func ScriptArgs(args ...any) (name string, deps []string, content string, err error) {
	if len(args) == 0 || len(args) > 3 {
		return "", nil, "", errorScriptArgs(fmt.Sprintf("%v", args))
	}

	name, ok := args[0].(string)
	if !ok || name == "" {
		return "", nil, "", errorScriptArgs(fmt.Sprintf("%v", args))
	}

	var second, third any
	if len(args) > 1 {
		second = args[1]
	}
	if len(args) > 2 {
		third = args[2]
	}

	contentArg, depsArg := second, third
	if isSequence(second) {
		contentArg, depsArg = third, second
	}

	if deps, ok = toStrings(depsArg); !ok {
		return "", nil, "", errorScriptArgs(fmt.Sprintf("%v", args))
	}
	switch value := contentArg.(type) {
	case nil:
	case string:
		content = value
	default:
		return "", nil, "", errorScriptArgs(fmt.Sprintf("%v", args))
	}
	return name, deps, content, nil
}

func isSequence(value any) bool {
	switch value.(type) {
	case []string, []any:
		return true
	}
	return false
}

// toStrings nil or a sequence of strings
func toStrings(value any) ([]string, bool) {
	switch list := value.(type) {
	case nil:
		return []string{}, true
	case []string:
		return append([]string{}, list...), true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, isString := item.(string)
			if !isString {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
