package git

import (
	"errors"
	"testing"

	fsb "github.com/input-output-hk/catalyst-forge-libs/gitshim/fs/billy"
)

func TestOptions_Validate(t *testing.T) {
	memFS := fsb.NewInMemoryFS()

	tests := []struct {
		name     string
		options  Options
		expected error
	}{
		{
			name:     "valid options",
			options:  Options{FS: memFS},
			expected: nil,
		},
		{
			name:     "nil filesystem",
			options:  Options{FS: nil},
			expected: ErrInvalidRef,
		},
		{
			name: "negative cache size",
			options: Options{
				FS:              memFS,
				StorerCacheSize: -1,
			},
			expected: ErrInvalidRef,
		},
		{
			name: "negative shallow depth",
			options: Options{
				FS:           memFS,
				ShallowDepth: -1,
			},
			expected: ErrInvalidRef,
		},
		{
			name: "zero values are valid",
			options: Options{
				FS:              memFS,
				StorerCacheSize: 0,
				ShallowDepth:    0,
			},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.options.Validate()
			if tt.expected == nil {
				if err != nil {
					t.Errorf("Validate() = %v; want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.expected) {
				t.Errorf("Validate() = %v; want error wrapping %v", err, tt.expected)
			}
		})
	}
}

func TestOptions_applyDefaults(t *testing.T) {
	tests := []struct {
		name          string
		input         Options
		wantWorkdir   string
		wantCacheSize int
	}{
		{
			name:          "empty options gets defaults",
			input:         Options{},
			wantWorkdir:   DefaultWorkdir,
			wantCacheSize: DefaultStorerCacheSize,
		},
		{
			name:          "custom workdir preserved",
			input:         Options{Workdir: "custom"},
			wantWorkdir:   "custom",
			wantCacheSize: DefaultStorerCacheSize,
		},
		{
			name:          "custom cache size preserved",
			input:         Options{StorerCacheSize: 500},
			wantWorkdir:   DefaultWorkdir,
			wantCacheSize: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.applyDefaults()

			if tt.input.Workdir != tt.wantWorkdir {
				t.Errorf("Workdir = %q; want %q", tt.input.Workdir, tt.wantWorkdir)
			}
			if tt.input.StorerCacheSize != tt.wantCacheSize {
				t.Errorf("StorerCacheSize = %d; want %d", tt.input.StorerCacheSize, tt.wantCacheSize)
			}
		})
	}
}
