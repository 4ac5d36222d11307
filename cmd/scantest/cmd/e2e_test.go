// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCommandsE2E(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "fsm.log")
	if err := os.WriteFile(good, []byte("0 cur_state 0\n1 cur_state 1\n2 cur_state 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.log")
	if err := os.WriteFile(bad, []byte("0 cur_state\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "chain file",
			args:        []string{"chain", good},
			wantContain: []string{"CHAIN SIZE: 3", "NAME:    cur_state", "INDICES: [0 1 2]"},
		},
		{
			name:        "builtin chains",
			args:        []string{"chain"},
			wantContain: []string{"CHAIN SIZE: 13", "NAME:    x_out", "CHAIN SIZE: 3"},
		},
		{
			name:    "bad chain file",
			args:    []string{"chain", bad},
			wantErr: true,
		},
		{
			name: "adder",
			args: []string{"adder"},
			wantContain: []string{
				"test case 1: a_reg = 2, b_reg = 5",
				"Result_val: 16",
				"test success!",
			},
		},
		{
			name:    "adder with wrong chain",
			args:    []string{"adder", "--chain", good},
			wantErr: true,
		},
		{
			name: "fsm",
			args: []string{"fsm", "--chain", good},
			wantContain: []string{
				"State Transition Table:",
				"     0      |      0      |      1",
				"State Output Table:",
			},
		},
		{
			name:    "bad step",
			args:    []string{"fsm", "--step", "3ns"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags to prevent accumulation between tests
			verbose = false
			settle = 10 * time.Nanosecond
			step = time.Nanosecond
			adderChain = ""
			fsmChain = ""

			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(tt.args)

			err := rootCmd.Execute()
			output := out.String()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v\nOutput: %s", err, output)
				return
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}
