package monitor

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/genricoloni/randpaper/internal/supervise"
	"github.com/genricoloni/randpaper/internal/supervise/mocks"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// TestCLI_Discover covers the command-line sources:
// 1. Success with noisy stdout
// 2. Non-zero exit status
// 3. Spawn failure
func TestCLI_Discover(t *testing.T) {
	tests := []struct {
		name        string
		newSource   func(*mocks.MockRunner) *CLI
		setupMock   func(*mocks.MockRunner)
		expected    []string
		expectError string
	}{
		{
			name: "Success - swaymsg",
			newSource: func(r *mocks.MockRunner) *CLI {
				return NewSwaymsg(zap.NewNop(), r)
			},
			setupMock: func(m *mocks.MockRunner) {
				m.EXPECT().Run(gomock.Any(), "swaymsg", "-t", "get_outputs", "-r").
					Return(supervise.Result{
						Stdout: []byte(`[{"name":"eDP-1","active":true},{"name":"DP-1","active":false}]`),
					}, nil)
			},
			expected: []string{"eDP-1"},
		},
		{
			name: "Success - hyprctl",
			newSource: func(r *mocks.MockRunner) *CLI {
				return NewHyprctl(zap.NewNop(), r)
			},
			setupMock: func(m *mocks.MockRunner) {
				m.EXPECT().Run(gomock.Any(), "hyprctl", "-j", "monitors").
					Return(supervise.Result{
						Stdout: []byte("ok\n" + `[{"name":"DP-2","id":0},{"name":"HDMI-A-1","id":1}]`),
					}, nil)
			},
			expected: []string{"DP-2", "HDMI-A-1"},
		},
		{
			name: "Non-zero exit",
			newSource: func(r *mocks.MockRunner) *CLI {
				return NewSwaymsg(zap.NewNop(), r)
			},
			setupMock: func(m *mocks.MockRunner) {
				m.EXPECT().Run(gomock.Any(), "swaymsg", gomock.Any(), gomock.Any(), gomock.Any()).
					Return(supervise.Result{ExitCode: 1, Stderr: []byte("Unable to connect to sway socket\n")}, nil)
			},
			expectError: "Unable to connect",
		},
		{
			name: "Spawn failure",
			newSource: func(r *mocks.MockRunner) *CLI {
				return NewHyprctl(zap.NewNop(), r)
			},
			setupMock: func(m *mocks.MockRunner) {
				m.EXPECT().Run(gomock.Any(), "hyprctl", gomock.Any(), gomock.Any()).
					Return(supervise.Result{}, errors.New("executable file not found in $PATH"))
			},
			expectError: "executable file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			runner := mocks.NewMockRunner(ctrl)
			tt.setupMock(runner)

			got, err := tt.newSource(runner).Discover(context.Background())

			if tt.expectError != "" {
				if err == nil || !strings.Contains(err.Error(), tt.expectError) {
					t.Fatalf("expected error containing %q, got %v", tt.expectError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("want %v, got %v", tt.expected, got)
			}
		})
	}
}
