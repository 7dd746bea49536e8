// Where: cmd/versionsync/cli_test.go
// What: Tests for entrypoint argument selection.
// Why: Lambda deployments must not need a command argument.
package main

import (
	"reflect"
	"testing"
)

func TestCommandArgs(t *testing.T) {
	lambdaEnv := func(key string) string {
		if key == "AWS_LAMBDA_RUNTIME_API" {
			return "127.0.0.1:9001"
		}
		return ""
	}
	noEnv := func(string) string { return "" }

	tests := []struct {
		name   string
		args   []string
		getenv func(string) string
		want   []string
	}{
		{name: "lambda runtime", args: nil, getenv: lambdaEnv, want: []string{"lambda"}},
		{name: "explicit command in lambda", args: []string{"version"}, getenv: lambdaEnv, want: []string{"version"}},
		{name: "cli without args", args: nil, getenv: noEnv, want: nil},
		{name: "cli", args: []string{"resolve", "-r", "-"}, getenv: noEnv, want: []string{"resolve", "-r", "-"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commandArgs(tt.args, tt.getenv); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("commandArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}
